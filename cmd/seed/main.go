// Command seed replaces the configured store's dataset with the contents
// of the seed source, then exits.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/backend"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/source"
)

func main() {
	sourceFlag := flag.String("source", "", "seed source URL or file path (overrides SEED_SOURCE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *sourceFlag != "" {
		cfg.Seed.Source = *sourceFlag
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Seed.Timeout)
	defer cancel()

	st, err := backend.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	fetcher := source.New(cfg.Seed.Source, &http.Client{Timeout: cfg.Seed.Timeout})
	seeder := services.NewSeeder(st, fetcher, logger)

	start := time.Now()
	n, seedErr := seeder.Seed(ctx)
	if err := st.Close(context.Background()); err != nil {
		logger.Warn("failed to close store", "error", err)
	}
	if seedErr != nil {
		logger.Error("seed failed", "source", cfg.Seed.Source, "error", seedErr)
		os.Exit(1)
	}

	logger.Info("database seeded successfully",
		"records", n,
		"backend", cfg.Store.Backend,
		"duration", time.Since(start),
	)
}
