package handlers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store/memstore"
)

type fetchFunc func(ctx context.Context) ([]models.Transaction, error)

func (f fetchFunc) Fetch(ctx context.Context) ([]models.Transaction, error) { return f(ctx) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func testTransactions() []models.Transaction {
	march := func(day int) time.Time { return time.Date(2022, 3, day, 10, 0, 0, 0, time.UTC) }
	return []models.Transaction{
		{Title: "Fjallraven Backpack", Description: "Fits 15 inch laptops", Price: 109.95, Category: "men's clothing", Sold: true, DateOfSale: march(1), Image: "https://example.com/bag.jpg"},
		{Title: "Solid Gold Petite Micropave", Description: "Satisfaction guaranteed", Price: 168, Category: "jewelery", Sold: false, DateOfSale: march(2)},
		{Title: "WD 2TB Elements Portable", Description: "USB 3.0 compatibility", Price: 64, Category: "electronics", Sold: true, DateOfSale: march(3)},
		{Title: "Samsung 49-Inch Monitor", Description: "Super ultrawide screen", Price: 999.99, Category: "electronics", Sold: false, DateOfSale: march(4)},
		{Title: "Rain Jacket", Description: "Lightweight & <waterproof>", Price: 39.99, Category: "women's clothing", Sold: true, DateOfSale: march(5)},
		{Title: "April Shirt", Description: "Slim fit", Price: 22.3, Category: "men's clothing", Sold: true, DateOfSale: time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func createTestAnalytics() *services.Analytics {
	return services.NewAnalytics(memstore.Seeded(testTransactions()), testLogger(), services.Options{})
}

func createTestAPIHandlers(fetch fetchFunc) (*APIHandlers, *memstore.Store) {
	s := memstore.Seeded(testTransactions())
	analytics := services.NewAnalytics(s, testLogger(), services.Options{})
	if fetch == nil {
		fetch = func(context.Context) ([]models.Transaction, error) { return nil, errors.New("no feed in tests") }
	}
	seeder := services.NewSeeder(s, fetch, testLogger())
	return NewAPIHandlers(analytics, seeder, testLogger(), "memory"), s
}
