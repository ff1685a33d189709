package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/model"
)

type ProviderRepository interface {
	// Все провайдеры в порядке хранения.
	List(ctx context.Context) ([]model.Provider, error)
	// Провайдер по ID; nil, если не найден.
	GetByID(ctx context.Context, id int64) (*model.Provider, error)
	// Создать провайдера: ID, значения по умолчанию, календарь слотов.
	Add(ctx context.Context, in model.ProviderInput) (*model.Provider, error)
	// Заменить запись с тем же ID; false, если такой нет.
	Update(ctx context.Context, p model.Provider) (bool, error)
	// Удалить провайдера вместе с его бронированиями.
	Remove(ctx context.Context, id int64) (bool, error)
	// Занять часовые слоты [start, end) на дату.
	ReserveRange(ctx context.Context, id int64, date, start, end string) (bool, error)
	// Добавить оценку и вернуть новую среднюю.
	AddRating(ctx context.Context, id int64, value float64) (float64, bool, error)
	// Операции поверх уже открытой транзакции.
	InTx(tx kv.Tx) ProviderTx
}

// Реализация поверх kv.Store: каждая операция — одна транзакция
// чтение всей коллекции → изменение копии → запись всей коллекции.
type KVProviderRepository struct {
	store kv.Store
	now   Clock
	log   *zap.Logger
}

func NewKVProviderRepository(store kv.Store, now Clock, log *zap.Logger) *KVProviderRepository {
	return &KVProviderRepository{store: store, now: now, log: log}
}

func (r *KVProviderRepository) InTx(tx kv.Tx) ProviderTx {
	return ProviderTx{tx: tx, now: r.now, log: r.log}
}

func (r *KVProviderRepository) List(ctx context.Context) ([]model.Provider, error) {
	var out []model.Provider
	err := r.store.View(ctx, func(tx kv.Tx) error {
		var err error
		out, err = r.InTx(tx).List()
		return err
	})
	return out, err
}

func (r *KVProviderRepository) GetByID(ctx context.Context, id int64) (*model.Provider, error) {
	var out *model.Provider
	err := r.store.View(ctx, func(tx kv.Tx) error {
		var err error
		out, err = r.InTx(tx).GetByID(id)
		return err
	})
	return out, err
}

func (r *KVProviderRepository) Add(ctx context.Context, in model.ProviderInput) (*model.Provider, error) {
	var out *model.Provider
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		out, err = r.InTx(tx).Add(in)
		return err
	})
	return out, err
}

func (r *KVProviderRepository) Update(ctx context.Context, p model.Provider) (bool, error) {
	var found bool
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		found, err = r.InTx(tx).Update(p)
		return err
	})
	return found, err
}

func (r *KVProviderRepository) Remove(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		removed, err = r.InTx(tx).Remove(id)
		return err
	})
	return removed, err
}

func (r *KVProviderRepository) ReserveRange(ctx context.Context, id int64, date, start, end string) (bool, error) {
	var changed bool
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		changed, err = r.InTx(tx).ReserveRange(id, date, start, end)
		return err
	})
	return changed, err
}

func (r *KVProviderRepository) AddRating(ctx context.Context, id int64, value float64) (float64, bool, error) {
	var (
		avg   float64
		found bool
	)
	err := r.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		avg, found, err = r.InTx(tx).AddRating(id, value)
		return err
	})
	return avg, found, err
}

// ProviderTx — операции над коллекцией провайдеров внутри транзакции.
type ProviderTx struct {
	tx  kv.Tx
	now Clock
	log *zap.Logger
}

func (p ProviderTx) List() ([]model.Provider, error) {
	return loadCollection[model.Provider](p.tx, KeyProviders, p.log)
}

// ReplaceAll перезаписывает коллекцию (используется при сидировании).
func (p ProviderTx) ReplaceAll(providers []model.Provider) error {
	return saveCollection(p.tx, KeyProviders, providers)
}

func (p ProviderTx) GetByID(id int64) (*model.Provider, error) {
	providers, err := p.List()
	if err != nil {
		return nil, err
	}
	if i := indexOfProvider(providers, id); i >= 0 {
		return &providers[i], nil
	}
	return nil, nil
}

func (p ProviderTx) Add(in model.ProviderInput) (*model.Provider, error) {
	providers, err := p.List()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, existing := range providers {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	created := model.Provider{
		ID:      maxID + 1,
		Rating:  0,
		Ratings: []float64{},
		Slots:   calendar.GenerateSlots(p.now(), 1),
	}
	created.ApplyInput(in)

	providers = append(providers, created)
	if err := p.ReplaceAll(providers); err != nil {
		return nil, err
	}
	return &created, nil
}

func (p ProviderTx) Update(provider model.Provider) (bool, error) {
	providers, err := p.List()
	if err != nil {
		return false, err
	}
	i := indexOfProvider(providers, provider.ID)
	if i < 0 {
		return false, nil
	}
	providers[i] = provider
	return true, p.ReplaceAll(providers)
}

// Remove удаляет провайдера и каскадно — все его бронирования.
func (p ProviderTx) Remove(id int64) (bool, error) {
	providers, err := p.List()
	if err != nil {
		return false, err
	}
	i := indexOfProvider(providers, id)
	if i < 0 {
		return false, nil
	}
	providers = append(providers[:i], providers[i+1:]...)
	if err := p.ReplaceAll(providers); err != nil {
		return false, err
	}

	reservations := ReservationTx{tx: p.tx, now: p.now, log: p.log}
	if _, err := reservations.RemoveByProvider(id); err != nil {
		return false, err
	}
	return true, nil
}

// ReserveRange помечает занятыми слоты даты date для каждого целого часа
// в [start, end). Отсутствующие часы пропускаются; true, если изменился
// хотя бы один слот.
func (p ProviderTx) ReserveRange(id int64, date, start, end string) (bool, error) {
	providers, err := p.List()
	if err != nil {
		return false, err
	}
	i := indexOfProvider(providers, id)
	if i < 0 || len(providers[i].Slots) == 0 {
		return false, nil
	}

	startHour, err := calendar.ParseHour(start)
	if err != nil {
		return false, nil
	}
	endHour, err := calendar.ParseHour(end)
	if err != nil {
		return false, nil
	}

	changed := false
	for _, label := range calendar.HourLabels(startHour, endHour) {
		slot := providers[i].FindSlot(date, label)
		if slot != nil && !slot.Reserved {
			slot.Reserved = true
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	return true, p.ReplaceAll(providers)
}

// AddRating добавляет оценку и пересчитывает среднюю.
// found == false, если провайдера нет.
func (p ProviderTx) AddRating(id int64, value float64) (avg float64, found bool, err error) {
	providers, err := p.List()
	if err != nil {
		return 0, false, err
	}
	i := indexOfProvider(providers, id)
	if i < 0 {
		return 0, false, nil
	}

	avg = providers[i].AddRating(value)
	if err := p.ReplaceAll(providers); err != nil {
		return 0, false, err
	}
	return avg, true, nil
}

func indexOfProvider(providers []model.Provider, id int64) int {
	for i := range providers {
		if providers[i].ID == id {
			return i
		}
	}
	return -1
}

// Clear удаляет коллекцию провайдеров из хранилища.
func (p ProviderTx) Clear() error {
	return p.tx.Delete(KeyProviders)
}
