// Package kvtest — хранилище для тестов: GORM поверх sqlite в памяти.
package kvtest

import (
	"testing"

	"github.com/Leganyst/reserveasy/internal/config"
	"github.com/Leganyst/reserveasy/internal/db"
	"github.com/Leganyst/reserveasy/internal/kv"
)

// NewStore открывает чистое хранилище на время теста.
func NewStore(t testing.TB) *kv.GormStore {
	t.Helper()

	gormDB, err := db.NewGormDB(config.DriverSQLite, &config.DBConfig{SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store, err := kv.NewGormStore(gormDB)
	if err != nil {
		t.Fatalf("new gorm store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
