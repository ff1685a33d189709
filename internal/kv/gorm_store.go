package kv

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kv_entries — одна строка на ключ, значение хранится как JSON.
type Entry struct {
	Name      string         `gorm:"type:varchar(191);primaryKey"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (Entry) TableName() string { return "kv_entries" }

// AutoMigrate создаёт таблицу хранилища.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Entry{})
}

// Реализация на GORM (sqlite/postgres).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate kv: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) View(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(readOnlyTx{get: gormTx{db: tx}.Get})
	})
}

func (s *GormStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormTx{db: tx})
	})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormTx struct {
	db *gorm.DB
}

func (t gormTx) Get(key string) ([]byte, error) {
	// Find по срезу, чтобы GORM не логировал record not found.
	var entries []Entry
	if err := t.db.Where("name = ?", key).Limit(1).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return []byte(entries[0].Value), nil
}

func (t gormTx) Set(key string, value []byte) error {
	e := Entry{Name: key, Value: datatypes.JSON(value)}
	err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (t gormTx) Delete(key string) error {
	if err := t.db.Where("name = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}
