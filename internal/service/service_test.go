package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv/kvtest"
	"github.com/Leganyst/reserveasy/internal/model"
	"github.com/Leganyst/reserveasy/internal/repository"
)

// 2025-01-01 — среда.
var testNow = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

const today = "2025-01-01"

type testEnv struct {
	providers    *repository.KVProviderRepository
	reservations *repository.KVReservationRepository
	events       *repository.KVEventRepository
	booking      *BookingService
	catalog      *CatalogService
	admin        *AdminService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	store := kvtest.NewStore(t)
	log := zap.NewNop()
	now := func() time.Time { return testNow }

	providers := repository.NewKVProviderRepository(store, now, log)
	reservations := repository.NewKVReservationRepository(store, now, log)
	events := repository.NewKVEventRepository(store, now, log)
	settings := repository.NewKVSettingsRepository(store, log)

	return testEnv{
		providers:    providers,
		reservations: reservations,
		events:       events,
		booking:      NewBookingService(store, providers, reservations, events, log),
		catalog:      NewCatalogService(providers, log),
		admin:        NewAdminService(store, providers, reservations, events, settings, now, log),
	}
}

// newSeededEnv — окружение со стартовым каталогом.
func newSeededEnv(t *testing.T) testEnv {
	t.Helper()
	env := newTestEnv(t)
	seeded, err := env.admin.Initialize(context.Background())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !seeded {
		t.Fatalf("expected empty storage to be seeded")
	}
	return env
}

func eventTypes(t *testing.T, env testEnv) []model.EventType {
	t.Helper()
	events, err := env.events.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent events: %v", err)
	}
	out := make([]model.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.EventType)
	}
	return out
}
