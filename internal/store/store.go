// Package store defines what the analytics layer needs from the
// transaction collection. Backends live in the sub-packages.
package store

import (
	"context"
	"errors"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/query"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store closed")

// Totals is the raw summary aggregate. PriceSum is not rounded.
type Totals struct {
	PriceSum float64 `db:"price_sum" bson:"priceSum"`
	Sold     int64   `db:"sold" bson:"sold"`
	NotSold  int64   `db:"not_sold" bson:"notSold"`
}

// Store is a transaction collection with filtered query, count and
// grouping support. Find returns records in insertion order.
type Store interface {
	Count(ctx context.Context, f query.Filter) (int64, error)
	Find(ctx context.Context, f query.Filter, skip, limit int64) ([]models.Transaction, error)
	Summarize(ctx context.Context, f query.Filter) (Totals, error)
	CountByCategory(ctx context.Context, f query.Filter) ([]models.CategoryCount, error)
	CountAll(ctx context.Context) (int64, error)

	// ReplaceAll deletes every record and then inserts txs. It is not
	// atomic: a failure part way leaves the collection partially filled.
	ReplaceAll(ctx context.Context, txs []models.Transaction) error

	Close(ctx context.Context) error
}
