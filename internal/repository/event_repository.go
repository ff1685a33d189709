package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/model"
)

// MaxEvents — сколько последних событий аудита хранится.
const MaxEvents = 500

type EventRepository interface {
	// Последние limit событий, от старых к новым; limit <= 0 — все.
	Recent(ctx context.Context, limit int) ([]model.Event, error)
	InTx(tx kv.Tx) EventTx
}

type KVEventRepository struct {
	store kv.Store
	now   Clock
	log   *zap.Logger
}

func NewKVEventRepository(store kv.Store, now Clock, log *zap.Logger) *KVEventRepository {
	return &KVEventRepository{store: store, now: now, log: log}
}

func (r *KVEventRepository) InTx(tx kv.Tx) EventTx {
	return EventTx{tx: tx, now: r.now, log: r.log}
}

func (r *KVEventRepository) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	var out []model.Event
	err := r.store.View(ctx, func(tx kv.Tx) error {
		events, err := r.InTx(tx).List()
		if err != nil {
			return err
		}
		if limit > 0 && len(events) > limit {
			events = events[len(events)-limit:]
		}
		out = events
		return nil
	})
	return out, err
}

// EventTx — журнал аудита внутри транзакции.
type EventTx struct {
	tx  kv.Tx
	now Clock
	log *zap.Logger
}

func (e EventTx) List() ([]model.Event, error) {
	return loadCollection[model.Event](e.tx, KeyEvents, e.log)
}

// Append добавляет событие, отбрасывая самые старые сверх MaxEvents.
func (e EventTx) Append(eventType model.EventType, providerID, reservationID *int64, details string) (*model.Event, error) {
	events, err := e.List()
	if err != nil {
		return nil, err
	}

	ev := model.Event{
		ID:            uuid.New(),
		EventType:     eventType,
		CreatedAt:     e.now().UTC(),
		ProviderID:    providerID,
		ReservationID: reservationID,
		Details:       details,
	}
	events = append(events, ev)
	if len(events) > MaxEvents {
		events = events[len(events)-MaxEvents:]
	}
	if err := saveCollection(e.tx, KeyEvents, events); err != nil {
		return nil, err
	}
	return &ev, nil
}
