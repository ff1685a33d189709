package repository

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/kv/kvtest"
)

// 2025-01-01 — среда.
var testNow = time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type testRepos struct {
	store        kv.Store
	providers    *KVProviderRepository
	reservations *KVReservationRepository
	events       *KVEventRepository
	settings     *KVSettingsRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	store := kvtest.NewStore(t)
	log := zap.NewNop()
	return testRepos{
		store:        store,
		providers:    NewKVProviderRepository(store, fixedClock, log),
		reservations: NewKVReservationRepository(store, fixedClock, log),
		events:       NewKVEventRepository(store, fixedClock, log),
		settings:     NewKVSettingsRepository(store, log),
	}
}

// memTx — транзакция поверх map для property-тестов без базы.
type memTx map[string][]byte

func (m memTx) Get(key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (m memTx) Set(key string, value []byte) error {
	m[key] = append([]byte(nil), value...)
	return nil
}

func (m memTx) Delete(key string) error {
	delete(m, key)
	return nil
}
