package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quill/internal/config"
	"quill/internal/domain/repositories"
	"quill/internal/repository/badger"
	"quill/internal/repository/memory"
	"quill/internal/repository/postgres"
	"quill/internal/repository/sqlite"
)

// Open opens the persistence medium selected by cfg.StorageDriver.
// The caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.KeyValueStore, error) {
	switch cfg.StorageDriver {
	case "badger":
		return badger.Open(cfg.StoragePath, logger)

	case "sqlite":
		return sqlite.Open(cfg.StoragePath, logger)

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := postgres.NewStore(ctx, pool, cfg.TablePrefix, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
		return store, nil

	case "memory":
		logger.Warn("memory storage driver: data is lost on restart")
		return memory.New(cfg.StorageCapacity), nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (supported: badger, sqlite, postgres, memory)", cfg.StorageDriver)
	}
}
