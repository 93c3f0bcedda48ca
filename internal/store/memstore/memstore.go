// Package memstore keeps transactions in process memory and evaluates
// filters with query.Filter.Matches.
package memstore

import (
	"context"
	"strconv"
	"sync"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/query"
	"sales-dashboard/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	txs    []models.Transaction
	nextID int64
	closed bool
}

func New() *Store {
	return &Store{nextID: 1}
}

// Seeded returns a store already holding txs, with ids assigned.
func Seeded(txs []models.Transaction) *Store {
	s := New()
	s.insert(txs)
	return s
}

func (s *Store) Count(ctx context.Context, f query.Filter) (int64, error) {
	var n int64
	err := s.each(ctx, f, func(models.Transaction) { n++ })
	return n, err
}

func (s *Store) Find(ctx context.Context, f query.Filter, skip, limit int64) ([]models.Transaction, error) {
	out := []models.Transaction{}
	var seen int64
	err := s.each(ctx, f, func(tx models.Transaction) {
		if seen >= skip && int64(len(out)) < limit {
			out = append(out, tx)
		}
		seen++
	})
	return out, err
}

func (s *Store) Summarize(ctx context.Context, f query.Filter) (store.Totals, error) {
	var t store.Totals
	err := s.each(ctx, f, func(tx models.Transaction) {
		t.PriceSum += tx.Price
		if tx.Sold {
			t.Sold++
		} else {
			t.NotSold++
		}
	})
	return t, err
}

func (s *Store) CountByCategory(ctx context.Context, f query.Filter) ([]models.CategoryCount, error) {
	index := make(map[string]int)
	out := []models.CategoryCount{}
	err := s.each(ctx, f, func(tx models.Transaction) {
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, models.CategoryCount{Category: tx.Category})
		}
		out[i].Count++
	})
	return out, err
}

func (s *Store) CountAll(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, store.ErrClosed
	}
	return int64(len(s.txs)), ctx.Err()
}

func (s *Store) ReplaceAll(ctx context.Context, txs []models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return store.ErrClosed
	}
	s.txs = nil
	s.mu.Unlock()

	s.insert(txs)
	return nil
}

func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.txs = nil
	return nil
}

func (s *Store) insert(txs []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		tx.ID = strconv.FormatInt(s.nextID, 10)
		s.nextID++
		s.txs = append(s.txs, tx)
	}
}

func (s *Store) each(ctx context.Context, f query.Filter, fn func(models.Transaction)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return store.ErrClosed
	}
	for _, tx := range s.txs {
		if f.Matches(tx) {
			fn(tx)
		}
	}
	return nil
}
