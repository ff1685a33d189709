package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
)

// Ключи коллекций в пространстве имён хранилища.
const (
	KeyProviders    = "reserveasy_providers"
	KeyReservations = "reserveasy_reservations"
	KeyAdmin        = "reserveasy_admin"
	KeyEvents       = "reserveasy_events"
)

// Clock — источник текущего времени (в тестах подменяется).
type Clock func() time.Time

// loadCollection читает коллекцию целиком. Отсутствующий ключ и
// нечитаемый JSON дают пустую коллекцию, а не ошибку.
func loadCollection[T any](tx kv.Tx, key string, log *zap.Logger) ([]T, error) {
	raw, err := tx.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn("malformed collection treated as empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// saveCollection перезаписывает коллекцию целиком.
func saveCollection[T any](tx kv.Tx, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return tx.Set(key, raw)
}
