package kv

import (
	"errors"
	"reflect"
	"testing"
)

func TestBufferedTx(t *testing.T) {
	backing := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	tx := newBufferedTx(func(key string) ([]byte, error) {
		v, ok := backing[key]
		if !ok {
			return nil, ErrNotFound
		}
		return v, nil
	})

	if v, err := tx.Get("a"); err != nil || string(v) != "1" {
		t.Fatalf("Get a = %q, %v", v, err)
	}

	_ = tx.Set("c", []byte("3"))
	_ = tx.Set("a", []byte("10"))
	_ = tx.Delete("b")
	_ = tx.Set("c", []byte("30"))

	if v, _ := tx.Get("a"); string(v) != "10" {
		t.Fatalf("Get a after Set = %q", v)
	}
	if _, err := tx.Get("b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get deleted b: %v", err)
	}
	if string(backing["a"]) != "1" {
		t.Fatalf("backing store must not change before commit")
	}

	sets, deletes := tx.pending()
	if !reflect.DeepEqual(sets, []string{"c", "a"}) {
		t.Fatalf("sets = %v", sets)
	}
	if !reflect.DeepEqual(deletes, []string{"b"}) {
		t.Fatalf("deletes = %v", deletes)
	}
	if string(tx.writes["c"]) != "30" {
		t.Fatalf("c = %q", tx.writes["c"])
	}

	// Set после Delete отменяет удаление.
	_ = tx.Set("b", []byte("20"))
	if _, deletes := tx.pending(); len(deletes) != 0 {
		t.Fatalf("deletes after re-set = %v", deletes)
	}
}
