// Package storetest is a conformance suite shared by the store backends.
package storetest

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/query"
	"sales-dashboard/internal/store"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// Fixture holds six March records across two years, one April record,
// one February record, one June record with non-ASCII text and one record
// that is March locally but February in UTC.
func Fixture() []models.Transaction {
	return []models.Transaction{
		{Title: "Samsung Phone", Description: "Android smartphone", Price: 250.5, Category: "electronics", Sold: true, DateOfSale: time.Date(2021, 3, 5, 10, 0, 0, 0, time.UTC)},
		{Title: "Cotton Shirt", Description: "Slim fit, 100% cotton", Price: 45, Category: "men's clothing", Sold: false, DateOfSale: time.Date(2022, 3, 17, 9, 30, 0, 0, time.UTC)},
		{Title: "Gold Ring", Description: "Shiny", Price: 100, Category: "jewelery", Sold: true, DateOfSale: time.Date(2021, 3, 28, 18, 0, 0, 0, time.UTC)},
		{Title: "Backpack", Description: "Fits a phone and a laptop", Price: 109.95, Category: "men's clothing", Sold: false, DateOfSale: time.Date(2022, 3, 2, 8, 0, 0, 0, time.UTC)},
		{Title: "Monitor", Description: "27 inch", Price: 999.99, Category: "electronics", Sold: true, DateOfSale: time.Date(2021, 3, 30, 23, 0, 0, 0, time.UTC)},
		{Title: "Jacket", Description: "Winter", Price: 100.5, Category: "women's clothing", Sold: false, DateOfSale: time.Date(2022, 3, 11, 12, 0, 0, 0, time.UTC)},
		{Title: "Phone Case", Description: "Silicone", Price: 12, Category: "electronics", Sold: true, DateOfSale: time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Late Night Lamp", Description: "Desk lamp", Price: 30, Category: "electronics", Sold: true, DateOfSale: time.Date(2022, 3, 1, 2, 0, 0, 0, ist)},
		{Title: "Watch", Description: "Analog", Price: 200, Category: "jewelery", Sold: false, DateOfSale: time.Date(2022, 2, 14, 0, 0, 0, 0, time.UTC)},
		{Title: "Éclair Maker", Description: "Große Küche", Price: 75, Category: "home", Sold: true, DateOfSale: time.Date(2022, 6, 9, 15, 0, 0, 0, time.UTC)},
	}
}

// Run exercises a fresh store returned by open. The store is closed when
// the test finishes.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()

	s := open(t)
	t.Cleanup(func() { s.Close(ctx) })
	require.NoError(t, s.ReplaceAll(ctx, Fixture()))

	march, err := query.ForMonth(3)
	require.NoError(t, err)

	t.Run("CountAll", func(t *testing.T) {
		n, err := s.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	})

	t.Run("CountMonth", func(t *testing.T) {
		n, err := s.Count(ctx, march)
		require.NoError(t, err)
		assert.Equal(t, int64(6), n)

		feb, _ := query.ForMonth(2)
		n, err = s.Count(ctx, feb)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n, "offset date should count as February in UTC")

		dec, _ := query.ForMonth(12)
		n, err = s.Count(ctx, dec)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("FindInInsertionOrder", func(t *testing.T) {
		got, err := s.Find(ctx, march, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Samsung Phone", "Cotton Shirt", "Gold Ring", "Backpack", "Monitor", "Jacket"}, titles(got))

		ids := make(map[string]bool)
		for _, tx := range got {
			assert.NotEmpty(t, tx.ID)
			assert.False(t, ids[tx.ID], "duplicate id %s", tx.ID)
			ids[tx.ID] = true
		}

		first := got[0]
		assert.Equal(t, "Android smartphone", first.Description)
		assert.Equal(t, 250.5, first.Price)
		assert.Equal(t, "electronics", first.Category)
		assert.True(t, first.Sold)
		assert.True(t, first.DateOfSale.Equal(time.Date(2021, 3, 5, 10, 0, 0, 0, time.UTC)), "date = %v", first.DateOfSale)
	})

	t.Run("FindSkipLimit", func(t *testing.T) {
		got, err := s.Find(ctx, march, 4, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Monitor", "Jacket"}, titles(got))

		got, err = s.Find(ctx, march, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cotton Shirt", "Gold Ring"}, titles(got))

		got, err = s.Find(ctx, march, 30, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Search", func(t *testing.T) {
		tests := []struct {
			term string
			want []string
		}{
			{"PHONE", []string{"Samsung Phone", "Backpack"}},
			{"100", []string{"Cotton Shirt", "Gold Ring"}},
			{"109.95", []string{"Backpack"}},
			{"100%", []string{"Cotton Shirt"}},
			{"_", nil},
			{"s.iny", nil},
			{"case", nil},
		}
		for _, tt := range tests {
			t.Run(tt.term, func(t *testing.T) {
				f := march.WithSearch(tt.term)
				got, err := s.Find(ctx, f, 0, 100)
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.want, titles(got))

				n, err := s.Count(ctx, f)
				require.NoError(t, err)
				assert.Equal(t, int64(len(tt.want)), n)
			})
		}
	})

	t.Run("SearchNonASCII", func(t *testing.T) {
		june, err := query.ForMonth(6)
		require.NoError(t, err)

		tests := []struct {
			term string
			want int64
		}{
			{"éclair", 1},
			{"ÉCLAIR", 1},
			{"KÜCHE", 1},
			{"große", 1},
			{"eclair", 0},
		}
		for _, tt := range tests {
			t.Run(tt.term, func(t *testing.T) {
				n, err := s.Count(ctx, june.WithSearch(tt.term))
				require.NoError(t, err)
				assert.Equal(t, tt.want, n)
			})
		}
	})

	t.Run("PriceBuckets", func(t *testing.T) {
		want := map[string]int64{"0-100": 2, "101-200": 2, "201-300": 1, "901+": 1}
		var sum int64
		for _, b := range query.Buckets {
			n, err := s.Count(ctx, march.WithPriceRange(b.Range()))
			require.NoError(t, err)
			assert.Equal(t, want[b.Label], n, "bucket %s", b.Label)
			sum += n
		}
		assert.Equal(t, int64(6), sum)
	})

	t.Run("Summarize", func(t *testing.T) {
		tot, err := s.Summarize(ctx, march)
		require.NoError(t, err)
		assert.InDelta(t, 1605.94, tot.PriceSum, 1e-6)
		assert.Equal(t, int64(3), tot.Sold)
		assert.Equal(t, int64(3), tot.NotSold)
	})

	t.Run("SummarizeEmpty", func(t *testing.T) {
		dec, _ := query.ForMonth(12)
		tot, err := s.Summarize(ctx, dec)
		require.NoError(t, err)
		assert.Equal(t, store.Totals{}, tot)
	})

	t.Run("CountByCategory", func(t *testing.T) {
		got, err := s.CountByCategory(ctx, march)
		require.NoError(t, err)
		slices.SortFunc(got, func(a, b models.CategoryCount) int { return strings.Compare(a.Category, b.Category) })
		assert.Equal(t, []models.CategoryCount{
			{Category: "electronics", Count: 2},
			{Category: "jewelery", Count: 1},
			{Category: "men's clothing", Count: 2},
			{Category: "women's clothing", Count: 1},
		}, got)

		dec, _ := query.ForMonth(12)
		got, err = s.CountByCategory(ctx, dec)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		repl := []models.Transaction{
			{Title: "Only One", Price: 10, Category: "misc", DateOfSale: time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC)},
		}
		require.NoError(t, s.ReplaceAll(ctx, repl))

		n, err := s.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := s.Find(ctx, march, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Only One"}, titles(got))

		require.NoError(t, s.ReplaceAll(ctx, nil))
		n, err = s.CountAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func titles(txs []models.Transaction) []string {
	var out []string
	for _, tx := range txs {
		out = append(out, tx.Title)
	}
	return out
}
