package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/model"
	"github.com/Leganyst/reserveasy/internal/repository"
	"github.com/Leganyst/reserveasy/internal/seed"
)

// AdminService — режим администратора, правка каталога и обслуживание
// хранилища (начальное заполнение и сброс).
type AdminService struct {
	store        kv.Store
	providers    repository.ProviderRepository
	reservations repository.ReservationRepository
	events       repository.EventRepository
	settings     repository.SettingsRepository
	now          repository.Clock
	log          *zap.Logger

	mu        sync.Mutex
	listeners []func(admin bool)
}

func NewAdminService(
	store kv.Store,
	providers repository.ProviderRepository,
	reservations repository.ReservationRepository,
	events repository.EventRepository,
	settings repository.SettingsRepository,
	now repository.Clock,
	log *zap.Logger,
) *AdminService {
	return &AdminService{
		store:        store,
		providers:    providers,
		reservations: reservations,
		events:       events,
		settings:     settings,
		now:          now,
		log:          log,
	}
}

// ===== Флаг администратора =====

func (s *AdminService) IsAdmin(ctx context.Context) (bool, error) {
	v, err := s.settings.IsAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("read admin flag: %w", err)
	}
	return v, nil
}

// SetAdmin сохраняет флаг и уведомляет подписчиков.
func (s *AdminService) SetAdmin(ctx context.Context, value bool) error {
	if err := s.settings.SetAdmin(ctx, value); err != nil {
		return fmt.Errorf("write admin flag: %w", err)
	}
	s.notify(value)
	return nil
}

// Toggle переключает флаг и возвращает новое значение.
func (s *AdminService) Toggle(ctx context.Context) (bool, error) {
	var next bool
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		stx := s.settings.InTx(tx)
		current, err := stx.IsAdmin()
		if err != nil {
			return err
		}
		next = !current
		return stx.SetAdmin(next)
	})
	if err != nil {
		return false, fmt.Errorf("toggle admin flag: %w", err)
	}
	s.notify(next)
	return next, nil
}

// OnChange регистрирует обработчик смены флага администратора.
func (s *AdminService) OnChange(fn func(admin bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *AdminService) notify(value bool) {
	s.mu.Lock()
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()

	s.log.Info("admin mode changed", zap.Bool("admin", value))
	for _, fn := range listeners {
		fn(value)
	}
}

func (s *AdminService) requireAdmin(tx kv.Tx) error {
	admin, err := s.settings.InTx(tx).IsAdmin()
	if err != nil {
		return err
	}
	if !admin {
		return ErrAdminRequired
	}
	return nil
}

// ===== Правка каталога =====

// AddProvider создаёт провайдера со свежим календарём слотов.
func (s *AdminService) AddProvider(ctx context.Context, in model.ProviderInput) (*model.Provider, error) {
	in, err := normalizeProviderInput(in)
	if err != nil {
		return nil, err
	}

	var created *model.Provider
	err = s.store.Update(ctx, func(tx kv.Tx) error {
		if err := s.requireAdmin(tx); err != nil {
			return err
		}
		created, err = s.providers.InTx(tx).Add(in)
		if err != nil {
			return err
		}
		_, err = s.events.InTx(tx).Append(model.EventTypeProviderCreated, &created.ID, nil, created.Name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add provider: %w", err)
	}

	s.log.Info("provider created", zap.Int64("provider_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// UpdateProvider заменяет редактируемые поля провайдера id.
// Слоты, оценки и рейтинг не меняются; пустые необязательные поля
// получают значения по умолчанию.
func (s *AdminService) UpdateProvider(ctx context.Context, id int64, in model.ProviderInput) (*model.Provider, error) {
	in, err := normalizeProviderInput(in)
	if err != nil {
		return nil, err
	}

	var updated *model.Provider
	err = s.store.Update(ctx, func(tx kv.Tx) error {
		if err := s.requireAdmin(tx); err != nil {
			return err
		}
		ptx := s.providers.InTx(tx)
		p, err := ptx.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProviderNotFound
		}

		p.ApplyInput(in)

		if _, err := ptx.Update(*p); err != nil {
			return err
		}
		updated = p
		_, err = s.events.InTx(tx).Append(model.EventTypeProviderUpdated, &p.ID, nil, p.Name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update provider %d: %w", id, err)
	}

	s.log.Info("provider updated", zap.Int64("provider_id", id))
	return updated, nil
}

// RemoveProvider удаляет провайдера и все его брони.
func (s *AdminService) RemoveProvider(ctx context.Context, id int64) error {
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		if err := s.requireAdmin(tx); err != nil {
			return err
		}
		removed, err := s.providers.InTx(tx).Remove(id)
		if err != nil {
			return err
		}
		if !removed {
			return ErrProviderNotFound
		}
		_, err = s.events.InTx(tx).Append(model.EventTypeProviderRemoved, &id, nil, "")
		return err
	})
	if err != nil {
		return fmt.Errorf("remove provider %d: %w", id, err)
	}

	s.log.Info("provider removed", zap.Int64("provider_id", id))
	return nil
}

// ===== Обслуживание хранилища =====

// Initialize заполняет пустой каталог стартовыми провайдерами и создаёт
// пустой журнал броней. Возвращает true, если каталог был заполнен.
func (s *AdminService) Initialize(ctx context.Context) (bool, error) {
	var seeded bool
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		var err error
		seeded, err = s.seedIfEmpty(tx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("initialize storage: %w", err)
	}
	if seeded {
		s.log.Info("catalog seeded", zap.Int("providers", seed.Size()))
	}
	return seeded, nil
}

// Reset удаляет провайдеров и брони, выключает режим администратора
// и заново заполняет каталог. Журнал аудита сохраняется.
func (s *AdminService) Reset(ctx context.Context) error {
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		if err := s.providers.InTx(tx).Clear(); err != nil {
			return err
		}
		if err := s.reservations.InTx(tx).Clear(); err != nil {
			return err
		}
		if err := s.settings.InTx(tx).SetAdmin(false); err != nil {
			return err
		}
		if _, err := s.seedIfEmpty(tx); err != nil {
			return err
		}
		_, err := s.events.InTx(tx).Append(model.EventTypeStorageReset, nil, nil, "")
		return err
	})
	if err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}

	s.log.Info("storage reset")
	s.notify(false)
	return nil
}

func (s *AdminService) seedIfEmpty(tx kv.Tx) (bool, error) {
	ptx := s.providers.InTx(tx)
	providers, err := ptx.List()
	if err != nil {
		return false, err
	}
	seeded := false
	if len(providers) == 0 {
		if err := ptx.ReplaceAll(seed.DefaultProviders(s.now())); err != nil {
			return false, err
		}
		seeded = true
	}

	rtx := s.reservations.InTx(tx)
	reservations, err := rtx.List()
	if err != nil {
		return false, err
	}
	if len(reservations) == 0 {
		if err := rtx.ReplaceAll([]model.Reservation{}); err != nil {
			return false, err
		}
	}
	return seeded, nil
}
