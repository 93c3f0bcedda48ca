// Package sqlstore keeps transactions in a relational table, on SQLite or
// PostgreSQL, and pushes filters down as SQL.
package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/query"
	"sales-dashboard/internal/store"
)

const (
	defaultBatchSize = 500
	selectColumns    = "id, title, description, price, category, image, sold, date_of_sale"
	insertStatement  = `INSERT INTO transactions (title, description, price, category, image, sold, date_of_sale)
		VALUES (:title, :description, :price, :category, :image, :sold, :date_of_sale)`
)

type Store struct {
	db        *sqlx.DB
	dialect   dialect
	batchSize int
}

type Options struct {
	Dialect Dialect
	// DSN is a file path for SQLite and a connection string for PostgreSQL.
	DSN       string
	BatchSize int
}

// row mirrors the table. date_of_sale is read back as text so both
// dialects decode the same way.
type row struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Category    string  `db:"category"`
	Image       string  `db:"image"`
	Sold        bool    `db:"sold"`
	DateOfSale  string  `db:"date_of_sale"`
}

type insertRow struct {
	Title       string  `db:"title"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Category    string  `db:"category"`
	Image       string  `db:"image"`
	Sold        bool    `db:"sold"`
	DateOfSale  any     `db:"date_of_sale"`
}

// Open connects, applies migrations and returns a ready store.
func Open(ctx context.Context, opts Options) (*Store, error) {
	d, ok := dialects[opts.Dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported sql dialect %q", opts.Dialect)
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("%s dsn is empty", d.name)
	}

	if d.name == SQLite {
		if err := os.MkdirAll(filepath.Dir(opts.DSN), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if err := runMigrations(d, opts.DSN); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, d.driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", d.name, err)
	}

	if d.name == Postgres {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	return &Store{db: db, dialect: d, batchSize: batch}, nil
}

func (s *Store) Count(ctx context.Context, f query.Filter) (int64, error) {
	where, args := s.dialect.where(f)
	var n int64
	if err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM transactions"+where), args...); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (s *Store) Find(ctx context.Context, f query.Filter, skip, limit int64) ([]models.Transaction, error) {
	where, args := s.dialect.where(f)
	q := "SELECT " + selectColumns + " FROM transactions" + where + " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *Store) Summarize(ctx context.Context, f query.Filter) (store.Totals, error) {
	where, args := s.dialect.where(f)
	q := `SELECT
		COALESCE(SUM(price), 0) AS price_sum,
		COALESCE(SUM(CASE WHEN sold THEN 1 ELSE 0 END), 0) AS sold,
		COALESCE(SUM(CASE WHEN sold THEN 0 ELSE 1 END), 0) AS not_sold
		FROM transactions` + where

	var t store.Totals
	if err := s.db.GetContext(ctx, &t, s.db.Rebind(q), args...); err != nil {
		return store.Totals{}, fmt.Errorf("summarize transactions: %w", err)
	}
	return t, nil
}

func (s *Store) CountByCategory(ctx context.Context, f query.Filter) ([]models.CategoryCount, error) {
	where, args := s.dialect.where(f)
	q := "SELECT category, COUNT(*) AS count FROM transactions" + where + " GROUP BY category"

	out := []models.CategoryCount{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	return out, nil
}

func (s *Store) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM transactions"); err != nil {
		return 0, fmt.Errorf("count all transactions: %w", err)
	}
	return n, nil
}

// ReplaceAll deletes first and then inserts in batches, each batch in its
// own database transaction.
func (s *Store) ReplaceAll(ctx context.Context, txs []models.Transaction) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}

	for start := 0; start < len(txs); start += s.batchSize {
		end := min(start+s.batchSize, len(txs))
		if err := s.insertBatch(ctx, txs[start:end]); err != nil {
			return fmt.Errorf("insert batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (s *Store) insertBatch(ctx context.Context, txs []models.Transaction) error {
	rows := make([]insertRow, len(txs))
	for i, tx := range txs {
		rows[i] = insertRow{
			Title:       tx.Title,
			Description: tx.Description,
			Price:       tx.Price,
			Category:    tx.Category,
			Image:       tx.Image,
			Sold:        tx.Sold,
			DateOfSale:  s.dialect.encodeTime(tx.DateOfSale),
		}
	}

	dbtx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := dbtx.NamedExecContext(ctx, insertStatement, rows); err != nil {
		dbtx.Rollback()
		return err
	}
	return dbtx.Commit()
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func (r row) toModel() (models.Transaction, error) {
	date, err := time.Parse(time.RFC3339Nano, r.DateOfSale)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse date_of_sale of row %d: %w", r.ID, err)
	}
	return models.Transaction{
		ID:          strconv.FormatInt(r.ID, 10),
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		Sold:        r.Sold,
		DateOfSale:  date.UTC(),
	}, nil
}
