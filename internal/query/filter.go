// Package query builds the immutable filters every read operation runs
// against, plus the price bucket table and pagination math.
package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

var (
	ErrMissingMonth = errors.New("month is required")
	ErrInvalidMonth = errors.New("month must be an integer between 1 and 12")
)

// Filter is a predicate over transactions. The zero value is not usable;
// build one with ParseMonth or ForMonth and compose with the With* methods,
// each of which returns a new Filter.
type Filter struct {
	month  time.Month
	search *Search
	price  *PriceRange
}

// Search is a case-insensitive substring match on title or description,
// or an exact match on price when the term is numeric.
type Search struct {
	Term  string
	Price *float64
}

// PriceRange bounds price. Min is exclusive when MinExclusive is set;
// Max applies only when Bounded is set and is always inclusive.
type PriceRange struct {
	Min          float64
	MinExclusive bool
	Max          float64
	Bounded      bool
}

// ParseMonth turns a raw request value into a month filter.
func ParseMonth(raw string) (Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Filter{}, ErrMissingMonth
	}
	m, err := strconv.Atoi(raw)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: got %q", ErrInvalidMonth, raw)
	}
	return ForMonth(m)
}

// ForMonth builds a filter for a month number in 1..12.
func ForMonth(month int) (Filter, error) {
	if month < 1 || month > 12 {
		return Filter{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	return Filter{month: time.Month(month)}, nil
}

// Month is the calendar month matched in every year.
func (f Filter) Month() time.Month { return f.month }

// Search returns the search clause, if one was added.
func (f Filter) Search() (Search, bool) {
	if f.search == nil {
		return Search{}, false
	}
	return *f.search, true
}

// PriceRange returns the price clause, if one was added.
func (f Filter) PriceRange() (PriceRange, bool) {
	if f.price == nil {
		return PriceRange{}, false
	}
	return *f.price, true
}

// WithSearch adds the search clause. A blank term leaves the filter as is.
func (f Filter) WithSearch(term string) Filter {
	if strings.TrimSpace(term) == "" {
		return f
	}
	s := &Search{Term: term}
	if p, ok := parsePrice(term); ok {
		s.Price = &p
	}
	f.search = s
	return f
}

// WithPriceRange adds or replaces the price clause.
func (f Filter) WithPriceRange(r PriceRange) Filter {
	f.price = &r
	return f
}

// Matches evaluates the filter in memory. Stores that cannot push the
// filter down use it directly; the others must agree with it.
func (f Filter) Matches(tx models.Transaction) bool {
	if tx.DateOfSale.UTC().Month() != f.month {
		return false
	}
	if s, ok := f.Search(); ok && !s.Matches(tx) {
		return false
	}
	if r, ok := f.PriceRange(); ok && !r.Contains(tx.Price) {
		return false
	}
	return true
}

func (s Search) Matches(tx models.Transaction) bool {
	needle := strings.ToLower(s.Term)
	if strings.Contains(strings.ToLower(tx.Title), needle) ||
		strings.Contains(strings.ToLower(tx.Description), needle) {
		return true
	}
	return s.Price != nil && tx.Price == *s.Price
}

func (r PriceRange) Contains(price float64) bool {
	if r.MinExclusive {
		if price <= r.Min {
			return false
		}
	} else if price < r.Min {
		return false
	}
	return !r.Bounded || price <= r.Max
}

func parsePrice(term string) (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(term), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}
