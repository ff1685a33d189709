package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/model"
)

type ReservationRepository interface {
	// Все бронирования в порядке создания.
	List(ctx context.Context) ([]model.Reservation, error)
	// Бронирование по ID; nil, если не найдено.
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	// Создать подтверждённое бронирование. Слоты провайдера не трогает.
	Add(ctx context.Context, providerID int64, providerName, date, start, end string) (*model.Reservation, error)
	// Отменить бронирование; false, если не найдено.
	Cancel(ctx context.Context, id int64) (bool, error)
	InTx(tx kv.Tx) ReservationTx
}

type KVReservationRepository struct {
	store kv.Store
	now   Clock
	log   *zap.Logger
}

func NewKVReservationRepository(store kv.Store, now Clock, log *zap.Logger) *KVReservationRepository {
	return &KVReservationRepository{store: store, now: now, log: log}
}

func (r *KVReservationRepository) InTx(tx kv.Tx) ReservationTx {
	return ReservationTx{tx: tx, now: r.now, log: r.log}
}

func (r *KVReservationRepository) List(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	err := r.store.View(ctx, func(tx kv.Tx) error {
		var err error
		out, err = r.InTx(tx).List()
		return err
	})
	return out, err
}

func (r *KVReservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	var out *model.Reservation
	err := r.store.View(ctx, func(tx kv.Tx) error {
		var err error
		out, err = r.InTx(tx).GetByID(id)
		return err
	})
	return out, err
}

func (r *KVReservationRepository) Add(
	ctx context.Context,
	providerID int64,
	providerName, date, start, end string,
) (*model.Reservation, error) {
	var out *model.Reservation
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		out, err = r.InTx(tx).Add(providerID, providerName, date, start, end)
		return err
	})
	return out, err
}

func (r *KVReservationRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		found, err = r.InTx(tx).Cancel(id)
		return err
	})
	return found, err
}

// ReservationTx — операции над журналом бронирований внутри транзакции.
type ReservationTx struct {
	tx  kv.Tx
	now Clock
	log *zap.Logger
}

func (r ReservationTx) List() ([]model.Reservation, error) {
	return loadCollection[model.Reservation](r.tx, KeyReservations, r.log)
}

func (r ReservationTx) ReplaceAll(reservations []model.Reservation) error {
	return saveCollection(r.tx, KeyReservations, reservations)
}

func (r ReservationTx) GetByID(id int64) (*model.Reservation, error) {
	list, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, nil
}

func (r ReservationTx) Add(providerID int64, providerName, date, start, end string) (*model.Reservation, error) {
	list, err := r.List()
	if err != nil {
		return nil, err
	}

	created := model.Reservation{
		ID:           nextReservationID(list, r.now().UnixMilli()),
		ProviderID:   providerID,
		ProviderName: providerName,
		Date:         date,
		Start:        start,
		End:          end,
		Status:       model.ReservationStatusConfirmed,
	}
	list = append(list, created)
	if err := r.ReplaceAll(list); err != nil {
		return nil, err
	}
	return &created, nil
}

// Cancel переводит бронирование в статус cancelled. Повторная отмена
// тоже возвращает true. Слоты провайдера не освобождаются.
func (r ReservationTx) Cancel(id int64) (bool, error) {
	list, err := r.List()
	if err != nil {
		return false, err
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Status = model.ReservationStatusCancelled
			return true, r.ReplaceAll(list)
		}
	}
	return false, nil
}

// RemoveByProvider удаляет все бронирования провайдера и возвращает их число.
func (r ReservationTx) RemoveByProvider(providerID int64) (int, error) {
	list, err := r.List()
	if err != nil {
		return 0, err
	}
	remaining := make([]model.Reservation, 0, len(list))
	for _, res := range list {
		if res.ProviderID != providerID {
			remaining = append(remaining, res)
		}
	}
	removed := len(list) - len(remaining)
	if removed == 0 {
		return 0, nil
	}
	return removed, r.ReplaceAll(remaining)
}

// nextReservationID — время в миллисекундах, но строго больше любого
// существующего ID, чтобы две брони в один тик не совпали.
func nextReservationID(existing []model.Reservation, nowMillis int64) int64 {
	id := nowMillis
	for _, res := range existing {
		if res.ID >= id {
			id = res.ID + 1
		}
	}
	return id
}

// Clear удаляет журнал бронирований из хранилища.
func (r ReservationTx) Clear() error {
	return r.tx.Delete(KeyReservations)
}
