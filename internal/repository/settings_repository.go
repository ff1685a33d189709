package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Leganyst/reserveasy/internal/kv"
)

// SettingsRepository хранит флаг режима администратора.
// Флаг не связан с данными провайдеров и бронирований.
type SettingsRepository interface {
	IsAdmin(ctx context.Context) (bool, error)
	SetAdmin(ctx context.Context, value bool) error
	InTx(tx kv.Tx) SettingsTx
}

type KVSettingsRepository struct {
	store kv.Store
	log   *zap.Logger
}

func NewKVSettingsRepository(store kv.Store, log *zap.Logger) *KVSettingsRepository {
	return &KVSettingsRepository{store: store, log: log}
}

func (r *KVSettingsRepository) InTx(tx kv.Tx) SettingsTx {
	return SettingsTx{tx: tx, log: r.log}
}

func (r *KVSettingsRepository) IsAdmin(ctx context.Context) (bool, error) {
	var v bool
	err := r.store.View(ctx, func(tx kv.Tx) error {
		var err error
		v, err = r.InTx(tx).IsAdmin()
		return err
	})
	return v, err
}

func (r *KVSettingsRepository) SetAdmin(ctx context.Context, value bool) error {
	return r.store.Update(ctx, func(tx kv.Tx) error {
		return r.InTx(tx).SetAdmin(value)
	})
}

type SettingsTx struct {
	tx  kv.Tx
	log *zap.Logger
}

// IsAdmin — отсутствующий или нечитаемый флаг означает false.
func (s SettingsTx) IsAdmin() (bool, error) {
	raw, err := s.tx.Get(KeyAdmin)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("malformed admin flag treated as false", zap.Error(err))
		return false, nil
	}
	return v, nil
}

func (s SettingsTx) SetAdmin(value bool) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode admin flag: %w", err)
	}
	return s.tx.Set(KeyAdmin, raw)
}
