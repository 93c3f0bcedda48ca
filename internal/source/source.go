// Package source reads the product transaction feed used to seed the store.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

const maxFeedBytes = 64 << 20

// Fetcher returns the full dataset from the feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.Transaction, error)
}

// record is one element of the feed array. The feed's numeric id is not
// kept; the store assigns its own.
type record struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Sold        bool    `json:"sold"`
	DateOfSale  string  `json:"dateOfSale"`
}

// New picks an HTTP fetcher for http(s) locations and a file fetcher for
// everything else, with an optional file:// prefix.
func New(location string, client *http.Client) Fetcher {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = &http.Client{Timeout: 30 * time.Second}
		}
		return &HTTPFetcher{url: location, client: client}
	}
	return &FileFetcher{path: strings.TrimPrefix(location, "file://")}
}

type HTTPFetcher struct {
	url    string
	client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]models.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", f.url, resp.StatusCode)
	}

	return decode(io.LimitReader(resp.Body, maxFeedBytes))
}

type FileFetcher struct {
	path string
}

func (f *FileFetcher) Fetch(ctx context.Context) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	return decode(file)
}

func decode(r io.Reader) ([]models.Transaction, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	txs := make([]models.Transaction, 0, len(records))
	for i, rec := range records {
		date, err := parseDate(rec.DateOfSale)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		txs = append(txs, models.Transaction{
			Title:       rec.Title,
			Description: rec.Description,
			Price:       rec.Price,
			Category:    rec.Category,
			Image:       rec.Image,
			Sold:        rec.Sold,
			DateOfSale:  date.UTC(),
		})
	}
	return txs, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable dateOfSale %q", raw)
}
