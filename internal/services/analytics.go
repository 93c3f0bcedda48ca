package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/fanout"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/query"
	"sales-dashboard/internal/store"
)

const (
	defaultMaxConcurrency = 10
	defaultCombinedLimit  = 10
)

type Options struct {
	// MaxConcurrency caps the store queries one request runs at once.
	MaxConcurrency int
	// CombinedLimit is how many transactions Combined returns.
	CombinedLimit int
}

// Analytics answers the dashboard's read operations. Every operation
// starts from the month filter; List alone adds the search clause.
type Analytics struct {
	store  store.Store
	logger *slog.Logger
	opts   Options
}

func NewAnalytics(s store.Store, logger *slog.Logger, opts Options) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = defaultMaxConcurrency
	}
	if opts.CombinedLimit <= 0 {
		opts.CombinedLimit = defaultCombinedLimit
	}
	return &Analytics{store: s, logger: logger, opts: opts}
}

// MonthFilter maps month parsing failures onto client errors.
func MonthFilter(month string) (query.Filter, error) {
	f, err := query.ParseMonth(month)
	switch {
	case errors.Is(err, query.ErrMissingMonth):
		return query.Filter{}, apperrors.MissingArgument("Month is required")
	case err != nil:
		return query.Filter{}, apperrors.InvalidArgument(err, "Invalid month")
	}
	return f, nil
}

func (a *Analytics) List(ctx context.Context, month, search string, page query.Page) (models.TransactionPage, error) {
	f, err := MonthFilter(month)
	if err != nil {
		return models.TransactionPage{}, err
	}
	f = f.WithSearch(search)

	result, err := a.page(ctx, f, page)
	if err != nil {
		return models.TransactionPage{}, a.storeFailure(ctx, err, "Error fetching transactions", f)
	}
	return result, nil
}

func (a *Analytics) Statistics(ctx context.Context, month string) (models.Summary, error) {
	f, err := MonthFilter(month)
	if err != nil {
		return models.Summary{}, err
	}

	summary, err := a.summary(ctx, f)
	if err != nil {
		return models.Summary{}, a.storeFailure(ctx, err, "Error fetching statistics", f)
	}
	return summary, nil
}

func (a *Analytics) Histogram(ctx context.Context, month string) ([]models.BucketCount, error) {
	f, err := MonthFilter(month)
	if err != nil {
		return nil, err
	}

	buckets, err := a.histogram(ctx, f)
	if err != nil {
		return nil, a.storeFailure(ctx, err, "Error fetching bar chart data", f)
	}
	return buckets, nil
}

func (a *Analytics) Distribution(ctx context.Context, month string) ([]models.CategoryCount, error) {
	f, err := MonthFilter(month)
	if err != nil {
		return nil, err
	}

	counts, err := a.store.CountByCategory(ctx, f)
	if err != nil {
		return nil, a.storeFailure(ctx, err, "Error fetching pie chart data", f)
	}
	return counts, nil
}

// Combined runs the four dashboard views concurrently for one month. The
// transaction list is the first CombinedLimit rows with no search applied.
func (a *Analytics) Combined(ctx context.Context, month string) (models.Combined, error) {
	f, err := MonthFilter(month)
	if err != nil {
		return models.Combined{}, err
	}

	ctx, span := observability.StartSpan(ctx, "analytics.combined")
	defer span.Finish(ctx, a.logger)
	span.SetTag("month", f.Month().String())

	var out models.Combined
	err = fanout.All(ctx, a.opts.MaxConcurrency,
		func(ctx context.Context) (err error) {
			out.Transactions, err = a.store.Find(ctx, f, 0, int64(a.opts.CombinedLimit))
			return err
		},
		func(ctx context.Context) (err error) {
			out.Statistics, err = a.summary(ctx, f)
			return err
		},
		func(ctx context.Context) (err error) {
			out.BarChart, err = a.histogram(ctx, f)
			return err
		},
		func(ctx context.Context) (err error) {
			out.PieChart, err = a.store.CountByCategory(ctx, f)
			return err
		},
	)
	if err != nil {
		span.SetError(err)
		return models.Combined{}, a.storeFailure(ctx, err, "Error fetching combined data", f)
	}
	return out, nil
}

// Stats reports the size of the collection for the admin endpoint.
func (a *Analytics) Stats(ctx context.Context) (map[string]any, error) {
	n, err := a.store.CountAll(ctx)
	if err != nil {
		return nil, apperrors.StoreFailure(err, "Error fetching stats")
	}
	return map[string]any{
		"record_count": n,
		"buckets":      len(query.Buckets),
	}, nil
}

func (a *Analytics) page(ctx context.Context, f query.Filter, p query.Page) (models.TransactionPage, error) {
	var (
		total int64
		txs   []models.Transaction
	)
	err := fanout.All(ctx, a.opts.MaxConcurrency,
		func(ctx context.Context) (err error) {
			total, err = a.store.Count(ctx, f)
			return err
		},
		func(ctx context.Context) (err error) {
			txs, err = a.store.Find(ctx, f, p.Skip(), p.Limit())
			return err
		},
	)
	if err != nil {
		return models.TransactionPage{}, err
	}

	return models.TransactionPage{
		Transactions: txs,
		Pagination: models.Pagination{
			Total:      total,
			Page:       p.Number,
			PerPage:    p.PerPage,
			TotalPages: p.TotalPages(total),
		},
	}, nil
}

// summary rounds the price total to cents. No matching rows gives zeros.
func (a *Analytics) summary(ctx context.Context, f query.Filter) (models.Summary, error) {
	t, err := a.store.Summarize(ctx, f)
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summary{
		TotalSaleAmount: decimal.NewFromFloat(t.PriceSum).Round(2).InexactFloat64(),
		SoldItems:       t.Sold,
		NotSoldItems:    t.NotSold,
	}, nil
}

// histogram counts each bucket concurrently; the result keeps table order.
func (a *Analytics) histogram(ctx context.Context, f query.Filter) ([]models.BucketCount, error) {
	tasks := make([]fanout.Task[models.BucketCount], len(query.Buckets))
	for i, b := range query.Buckets {
		bf := f.WithPriceRange(b.Range())
		tasks[i] = func(ctx context.Context) (models.BucketCount, error) {
			n, err := a.store.Count(ctx, bf)
			if err != nil {
				return models.BucketCount{}, err
			}
			return models.BucketCount{Range: b.Label, Count: n}, nil
		}
	}
	return fanout.Collect(ctx, a.opts.MaxConcurrency, tasks...)
}

func (a *Analytics) storeFailure(ctx context.Context, err error, message string, f query.Filter) error {
	a.logger.ErrorContext(ctx, message,
		"error", err,
		"month", int(f.Month()),
	)
	return apperrors.StoreFailure(err, message)
}
