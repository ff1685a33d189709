package repository

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/model"
)

func TestEventRepository_AppendAndRecent(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	pid := int64(7)
	rid := int64(1735725000000)
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		etx := r.events.InTx(tx)
		if _, err := etx.Append(model.EventTypeProviderCreated, &pid, nil, "Salon A"); err != nil {
			return err
		}
		_, err := etx.Append(model.EventTypeBookingCreated, &pid, &rid, "2025-01-01 09:00-11:00")
		return err
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := r.events.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	first, second := events[0], events[1]
	if first.EventType != model.EventTypeProviderCreated || first.ReservationID != nil || *first.ProviderID != pid {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if second.EventType != model.EventTypeBookingCreated || *second.ReservationID != rid {
		t.Fatalf("unexpected second event: %+v", second)
	}
	if first.ID == second.ID {
		t.Fatalf("event ids must differ")
	}
	if !first.CreatedAt.Equal(testNow) {
		t.Fatalf("createdAt = %v, want %v", first.CreatedAt, testNow)
	}

	last, err := r.events.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent(1): %v", err)
	}
	if len(last) != 1 || last[0].ID != second.ID {
		t.Fatalf("Recent(1) must return the newest event: %+v", last)
	}
}

func TestEventTx_AppendKeepsNewest(t *testing.T) {
	tx := memTx{}
	etx := EventTx{tx: tx, now: fixedClock, log: zap.NewNop()}

	for i := 0; i < MaxEvents+5; i++ {
		id := int64(i)
		if _, err := etx.Append(model.EventTypeRatingAdded, &id, nil, ""); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	events, err := etx.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != MaxEvents {
		t.Fatalf("expected %d events, got %d", MaxEvents, len(events))
	}
	if *events[0].ProviderID != 5 || *events[len(events)-1].ProviderID != int64(MaxEvents+4) {
		t.Fatalf("oldest events must be dropped first: first=%d last=%d",
			*events[0].ProviderID, *events[len(events)-1].ProviderID)
	}
}

func TestSettingsRepository_AdminFlag(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	on, err := r.settings.IsAdmin(ctx)
	if err != nil || on {
		t.Fatalf("absent flag must read as false: %v %v", on, err)
	}

	if err := r.settings.SetAdmin(ctx, true); err != nil {
		t.Fatalf("SetAdmin: %v", err)
	}
	on, err = r.settings.IsAdmin(ctx)
	if err != nil || !on {
		t.Fatalf("IsAdmin after SetAdmin(true): %v %v", on, err)
	}

	if err := r.store.Update(ctx, func(tx kv.Tx) error {
		return tx.Set(KeyAdmin, []byte(`"yes"`))
	}); err != nil {
		t.Fatalf("seed malformed flag: %v", err)
	}
	on, err = r.settings.IsAdmin(ctx)
	if err != nil || on {
		t.Fatalf("malformed flag must read as false: %v %v", on, err)
	}
}
