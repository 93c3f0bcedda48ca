package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Page is a validated 1-based page request.
type Page struct {
	Number  int
	PerPage int
}

// ParsePage reads page and per_page values. Anything unparseable or out of
// range falls back to the defaults; there is no upper clamp on the page.
func ParsePage(rawPage, rawPerPage string) Page {
	return Page{
		Number:  positiveOr(rawPage, DefaultPage),
		PerPage: positiveOr(rawPerPage, DefaultPerPage),
	}
}

// Skip saturates instead of overflowing for absurd page numbers.
func (p Page) Skip() int64 {
	n, per := int64(p.Number-1), int64(p.PerPage)
	if n <= 0 || per <= 0 {
		return 0
	}
	if n > math.MaxInt64/per {
		return math.MaxInt64
	}
	return n * per
}

func (p Page) Limit() int64 {
	return int64(p.PerPage)
}

// TotalPages is ceil(total / per_page).
func (p Page) TotalPages(total int64) int64 {
	per := int64(p.PerPage)
	if total <= 0 || per <= 0 {
		return 0
	}
	return (total + per - 1) / per
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
