package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/calendar"
	"github.com/Leganyst/reserveasy/internal/kv"
	"github.com/Leganyst/reserveasy/internal/model"
	"github.com/Leganyst/reserveasy/internal/repository"
)

// BookingService — бронирование слотов, отмена и оценки.
type BookingService struct {
	store        kv.Store
	providers    repository.ProviderRepository
	reservations repository.ReservationRepository
	events       repository.EventRepository
	log          *zap.Logger
}

func NewBookingService(
	store kv.Store,
	providers repository.ProviderRepository,
	reservations repository.ReservationRepository,
	events repository.EventRepository,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		store:        store,
		providers:    providers,
		reservations: reservations,
		events:       events,
		log:          log,
	}
}

// Book занимает слоты [start, end) на дату и создаёт запись о брони
// в одной транзакции. Если ни один слот не освободился под бронь,
// возвращает ErrSlotsUnavailable и ничего не пишет.
func (s *BookingService) Book(ctx context.Context, providerID int64, date, start, end string) (*model.Reservation, error) {
	if _, err := validateBookingRange(date, start, end); err != nil {
		return nil, err
	}

	var created *model.Reservation
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		ptx := s.providers.InTx(tx)
		provider, err := ptx.GetByID(providerID)
		if err != nil {
			return err
		}
		if provider == nil {
			return ErrProviderNotFound
		}

		reserved, err := ptx.ReserveRange(providerID, date, start, end)
		if err != nil {
			return err
		}
		if !reserved {
			return ErrSlotsUnavailable
		}

		created, err = s.reservations.InTx(tx).Add(provider.ID, provider.Name, date, start, end)
		if err != nil {
			return err
		}

		_, err = s.events.InTx(tx).Append(
			model.EventTypeBookingCreated,
			&created.ProviderID,
			&created.ID,
			calendar.FormatRangeForUser(date, start, end),
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("book provider %d: %w", providerID, err)
	}

	s.log.Info("booking created",
		zap.Int64("reservation_id", created.ID),
		zap.Int64("provider_id", created.ProviderID),
		zap.String("date", date),
		zap.String("start", start),
		zap.String("end", end),
	)
	return created, nil
}

// Cancel отменяет бронь. Повторная отмена не ошибка. Слоты не освобождаются.
func (s *BookingService) Cancel(ctx context.Context, id int64) (*model.Reservation, error) {
	var cancelled *model.Reservation
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		rtx := s.reservations.InTx(tx)
		existing, err := rtx.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrReservationNotFound
		}
		wasConfirmed := existing.Status == model.ReservationStatusConfirmed

		if _, err := rtx.Cancel(id); err != nil {
			return err
		}
		cancelled = existing
		cancelled.Status = model.ReservationStatusCancelled

		if !wasConfirmed {
			return nil
		}
		_, err = s.events.InTx(tx).Append(model.EventTypeBookingCancelled, &existing.ProviderID, &existing.ID, "")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("cancel reservation %d: %w", id, err)
	}

	s.log.Info("booking cancelled", zap.Int64("reservation_id", id))
	return cancelled, nil
}

// Reservations — все брони в порядке создания.
func (s *BookingService) Reservations(ctx context.Context) ([]model.Reservation, error) {
	list, err := s.reservations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return list, nil
}

// Rate добавляет оценку 1..5 и возвращает новую среднюю.
func (s *BookingService) Rate(ctx context.Context, providerID int64, value float64) (float64, error) {
	if err := validateRating(value); err != nil {
		return 0, err
	}

	var avg float64
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		var (
			found bool
			err   error
		)
		avg, found, err = s.providers.InTx(tx).AddRating(providerID, value)
		if err != nil {
			return err
		}
		if !found {
			return ErrProviderNotFound
		}
		_, err = s.events.InTx(tx).Append(model.EventTypeRatingAdded, &providerID, nil, strconv.FormatFloat(value, 'g', -1, 64))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("rate provider %d: %w", providerID, err)
	}

	s.log.Info("rating added",
		zap.Int64("provider_id", providerID),
		zap.Float64("value", value),
		zap.Float64("average", avg),
	)
	return avg, nil
}
