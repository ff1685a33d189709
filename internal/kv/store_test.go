package kv_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Leganyst/reserveasy/internal/config"
	"github.com/Leganyst/reserveasy/internal/db"
	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/kv/kvtest"
)

// exerciseStore — общий сценарий для всех бэкендов.
func exerciseStore(t *testing.T, store kv.Store, prefix string) {
	t.Helper()
	ctx := context.Background()
	key := prefix + "providers"
	other := prefix + "reservations"

	t.Cleanup(func() {
		_ = store.Update(context.Background(), func(tx kv.Tx) error {
			_ = tx.Delete(key)
			return tx.Delete(other)
		})
	})

	// Отсутствующий ключ.
	err := store.View(ctx, func(tx kv.Tx) error {
		_, err := tx.Get(key)
		return err
	})
	if !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get missing: expected ErrNotFound, got %v", err)
	}

	// Запись и перезапись.
	if err := store.Update(ctx, func(tx kv.Tx) error {
		if err := tx.Set(key, []byte(`[1]`)); err != nil {
			return err
		}
		return tx.Set(key, []byte(`[1,2]`))
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got []byte
	if err := store.View(ctx, func(tx kv.Tx) error {
		var err error
		got, err = tx.Get(key)
		return err
	}); err != nil {
		t.Fatalf("View: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Fatalf("value = %s, want [1,2]", got)
	}

	// Ошибка внутри Update откатывает все записи.
	boom := errors.New("boom")
	err = store.Update(ctx, func(tx kv.Tx) error {
		if err := tx.Set(key, []byte(`[]`)); err != nil {
			return err
		}
		if err := tx.Set(other, []byte(`[3]`)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := store.View(ctx, func(tx kv.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		if string(v) != `[1,2]` {
			t.Fatalf("rolled back value = %s, want [1,2]", v)
		}
		if _, err := tx.Get(other); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("rolled back key exists: %v", err)
		}
		return nil
	}); err != nil {
		t.Fatalf("View after rollback: %v", err)
	}

	// View не даёт писать.
	err = store.View(ctx, func(tx kv.Tx) error {
		return tx.Set(key, []byte(`[]`))
	})
	if !errors.Is(err, kv.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}

	// Удаление, в том числе отсутствующего ключа.
	if err := store.Update(ctx, func(tx kv.Tx) error {
		if err := tx.Delete(other); err != nil {
			return err
		}
		return tx.Delete(key)
	}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err = store.View(ctx, func(tx kv.Tx) error {
		_, err := tx.Get(key)
		return err
	})
	if !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("after delete: expected ErrNotFound, got %v", err)
	}
}

func TestGormStore(t *testing.T) {
	exerciseStore(t, kvtest.NewStore(t), "test_")
}

func TestGormStore_ReadsOwnWritesInUpdate(t *testing.T) {
	store := kvtest.NewStore(t)
	err := store.Update(context.Background(), func(tx kv.Tx) error {
		if err := tx.Set("k", []byte(`true`)); err != nil {
			return err
		}
		v, err := tx.Get("k")
		if err != nil {
			return err
		}
		if string(v) != "true" {
			t.Fatalf("read own write = %s", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := db.NewRedisClient(context.Background(), &config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	store := kv.NewRedisStore(client)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store, "reserveasy_test_")
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client, err := db.NewMongoClient(context.Background(), &config.MongoConfig{URI: uri, Database: "reserveasy_test"})
	if err != nil {
		t.Fatalf("mongo: %v", err)
	}
	store := kv.NewMongoStore(client, "reserveasy_test")
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store, "test_")
}
