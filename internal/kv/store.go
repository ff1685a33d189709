// Package kv — хранилище "ключ → JSON-документ" с транзакциями
// чтение-изменение-запись поверх разных бэкендов.
package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrReadOnly = errors.New("kv: read-only transaction")
)

// Tx — операции внутри одной транзакции.
// Значения — сериализованные JSON-документы.
type Tx interface {
	// Get возвращает значение ключа или ErrNotFound.
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Delete удаляет ключ; отсутствие ключа ошибкой не считается.
	Delete(key string) error
}

// Store — хранилище с транзакциями.
type Store interface {
	// View выполняет fn в транзакции только на чтение.
	View(ctx context.Context, fn func(tx Tx) error) error
	// Update выполняет fn атомарно: либо применяются все записи, либо ни одной.
	// Ошибка из fn откатывает транзакцию и возвращается как есть.
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// readOnlyTx запрещает запись в транзакции View.
type readOnlyTx struct {
	get func(key string) ([]byte, error)
}

func (t readOnlyTx) Get(key string) ([]byte, error) { return t.get(key) }

func (readOnlyTx) Set(string, []byte) error { return ErrReadOnly }

func (readOnlyTx) Delete(string) error { return ErrReadOnly }

// bufferedTx копит записи до коммита; чтения видят собственные записи.
// Используется бэкендами, где запись должна уйти одной пачкой (Redis MULTI).
type bufferedTx struct {
	get     func(key string) ([]byte, error)
	writes  map[string][]byte
	deletes map[string]struct{}
	order   []string
}

func newBufferedTx(get func(key string) ([]byte, error)) *bufferedTx {
	return &bufferedTx{
		get:     get,
		writes:  map[string][]byte{},
		deletes: map[string]struct{}{},
	}
}

func (t *bufferedTx) Get(key string) ([]byte, error) {
	if _, ok := t.deletes[key]; ok {
		return nil, ErrNotFound
	}
	if v, ok := t.writes[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return t.get(key)
}

func (t *bufferedTx) Set(key string, value []byte) error {
	delete(t.deletes, key)
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = append([]byte(nil), value...)
	return nil
}

func (t *bufferedTx) Delete(key string) error {
	if _, ok := t.writes[key]; ok {
		delete(t.writes, key)
	}
	t.deletes[key] = struct{}{}
	return nil
}

// pending возвращает итоговые записи и удаления в порядке первой записи.
func (t *bufferedTx) pending() (sets []string, deletes []string) {
	for _, k := range t.order {
		if _, ok := t.writes[k]; ok {
			sets = append(sets, k)
		}
	}
	for k := range t.deletes {
		deletes = append(deletes, k)
	}
	return sets, deletes
}
