// Package backend opens the transaction store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/store"
	"sales-dashboard/internal/store/memstore"
	"sales-dashboard/internal/store/mongostore"
	"sales-dashboard/internal/store/sqlstore"
)

// Open returns a connected store. The caller owns it and must Close it.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case "memory":
		logger.Info("initialized memory store")
		return memstore.New(), nil

	case "sqlite":
		s, err := sqlstore.Open(ctx, sqlstore.Options{
			Dialect:   sqlstore.SQLite,
			DSN:       cfg.SQLitePath,
			BatchSize: cfg.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("initialized sqlite store", "path", cfg.SQLitePath)
		return s, nil

	case "postgres":
		s, err := sqlstore.Open(ctx, sqlstore.Options{
			Dialect:   sqlstore.Postgres,
			DSN:       cfg.PostgresDSN,
			BatchSize: cfg.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		logger.Info("initialized postgres store")
		return s, nil

	case "mongo":
		s, err := mongostore.Open(ctx, mongostore.Options{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			BatchSize:  cfg.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		logger.Info("initialized mongo store",
			"database", cfg.MongoDatabase,
			"collection", cfg.MongoCollection,
		)
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
