package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/source"
	"sales-dashboard/internal/store"
)

// Seeder replaces the whole collection with the feed contents.
type Seeder struct {
	store   store.Store
	fetcher source.Fetcher
	logger  *slog.Logger

	seedMu sync.Mutex

	mu         sync.Mutex
	lastSeeded time.Time
	lastCount  int
}

func NewSeeder(s store.Store, fetcher source.Fetcher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: s, fetcher: fetcher, logger: logger}
}

// Seed fetches first, so an unreachable feed leaves the store untouched.
// Once fetched, the store is cleared and refilled with no rollback: if the
// insert fails the collection may be empty or partial. Concurrent calls
// run one after another.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	start := time.Now()
	txs, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "seed fetch failed", "error", err)
		return 0, apperrors.UpstreamFailure(err, "Failed to fetch data")
	}

	if err := s.store.ReplaceAll(ctx, txs); err != nil {
		s.logger.ErrorContext(ctx, "seed replace failed, store may be empty or partial",
			"error", err,
			"records", len(txs),
		)
		return 0, apperrors.StoreFailure(err, "Failed to store data")
	}

	s.mu.Lock()
	s.lastSeeded = time.Now()
	s.lastCount = len(txs)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "database seeded",
		"records", len(txs),
		"duration", time.Since(start),
	)
	return len(txs), nil
}

// LastSeeded reports the last successful seed; zero time means never.
func (s *Seeder) LastSeeded() (time.Time, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeeded, s.lastCount
}
