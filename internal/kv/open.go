package kv

import (
	"context"
	"fmt"

	"github.com/Leganyst/reserveasy/internal/config"
	"github.com/Leganyst/reserveasy/internal/db"
)

// Open подключает бэкенд, выбранный в cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite, config.DriverPostgres:
		gormDB, err := db.NewGormDB(cfg.StoreDriver, &cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("init db: %w", err)
		}
		return NewGormStore(gormDB)
	case config.DriverRedis:
		client, err := db.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil
	case config.DriverMongo:
		client, err := db.NewMongoClient(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(client, cfg.Mongo.Database), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
