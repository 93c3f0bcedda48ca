package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sales-dashboard/internal/models"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

func TestNewAPIHandlers(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.backend != "memory" {
		t.Errorf("expected backend 'memory', got %q", handlers.backend)
	}
}

func TestAPIHandlers_HandleTransactions(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?month=3&page=1&per_page=2", nil)
	w := httptest.NewRecorder()

	handlers.HandleTransactions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected cache-control 'no-cache', got %q", cc)
	}

	var got models.TransactionPage
	decodeBody(t, w, &got)

	if len(got.Transactions) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(got.Transactions))
	}
	want := models.Pagination{Total: 5, Page: 1, PerPage: 2, TotalPages: 3}
	if got.Pagination != want {
		t.Errorf("expected pagination %+v, got %+v", want, got.Pagination)
	}
}

func TestAPIHandlers_HandleTransactions_Search(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	tests := []struct {
		search string
		want   int64
	}{
		{"backpack", 1},
		{"LAPTOPS", 1},
		{"168", 1},
		{"shirt", 0},
		{"", 5},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/transactions?month=3&search="+tt.search, nil)
			w := httptest.NewRecorder()
			handlers.HandleTransactions(w, req)

			var got models.TransactionPage
			decodeBody(t, w, &got)
			if got.Pagination.Total != tt.want {
				t.Errorf("search %q: expected total %d, got %d", tt.search, tt.want, got.Pagination.Total)
			}
		})
	}
}

func TestAPIHandlers_HandleTransactions_BadPagingFallsBack(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?month=3&page=zero&per_page=-5", nil)
	w := httptest.NewRecorder()
	handlers.HandleTransactions(w, req)

	var got models.TransactionPage
	decodeBody(t, w, &got)
	if got.Pagination.Page != 1 || got.Pagination.PerPage != 10 {
		t.Errorf("expected defaults page=1 per_page=10, got %+v", got.Pagination)
	}
}

func TestAPIHandlers_HandleTransactions_PastLastPage(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?month=3&page=9", nil)
	w := httptest.NewRecorder()
	handlers.HandleTransactions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var raw map[string]json.RawMessage
	decodeBody(t, w, &raw)
	if string(raw["transactions"]) != "[]" {
		t.Errorf("expected empty transactions array, got %s", raw["transactions"])
	}
}

func TestAPIHandlers_MonthValidation(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	routes := map[string]http.HandlerFunc{
		"/api/transactions":  handlers.HandleTransactions,
		"/api/statistics":    handlers.HandleStatistics,
		"/api/barchart":      handlers.HandleBarChart,
		"/api/piechart":      handlers.HandlePieChart,
		"/api/combined-data": handlers.HandleCombined,
	}
	tests := []struct {
		query string
		code  string
	}{
		{"", "MISSING_ARGUMENT"},
		{"?month=13", "INVALID_ARGUMENT"},
		{"?month=march", "INVALID_ARGUMENT"},
		{"?month=0", "INVALID_ARGUMENT"},
	}

	for path, handle := range routes {
		for _, tt := range tests {
			req := httptest.NewRequest(http.MethodGet, path+tt.query, nil)
			w := httptest.NewRecorder()
			handle(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("%s%s: expected status 400, got %d", path, tt.query, w.Code)
				continue
			}
			var resp struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
				Success bool `json:"success"`
			}
			decodeBody(t, w, &resp)
			if resp.Success || resp.Error.Code != tt.code {
				t.Errorf("%s%s: expected code %s, got %+v", path, tt.query, tt.code, resp)
			}
			if tt.code == "MISSING_ARGUMENT" && resp.Error.Message != "Month is required" {
				t.Errorf("%s: unexpected message %q", path, resp.Error.Message)
			}
		}
	}
}

func TestAPIHandlers_HandleStatistics(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics?month=3", nil)
	w := httptest.NewRecorder()
	handlers.HandleStatistics(w, req)

	var raw map[string]any
	decodeBody(t, w, &raw)

	if raw["totalSaleAmount"] != 1381.93 {
		t.Errorf("expected totalSaleAmount 1381.93, got %v", raw["totalSaleAmount"])
	}
	if raw["soldItems"] != float64(3) || raw["notSoldItems"] != float64(2) {
		t.Errorf("unexpected counts: %v", raw)
	}
}

func TestAPIHandlers_HandleStatistics_EmptyMonth(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics?month=11", nil)
	w := httptest.NewRecorder()
	handlers.HandleStatistics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var got models.Summary
	decodeBody(t, w, &got)
	if got != (models.Summary{}) {
		t.Errorf("expected zero summary, got %+v", got)
	}
}

func TestAPIHandlers_HandleBarChart(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/barchart?month=3", nil)
	w := httptest.NewRecorder()
	handlers.HandleBarChart(w, req)

	var got []models.BucketCount
	decodeBody(t, w, &got)

	if len(got) != 10 {
		t.Fatalf("expected 10 buckets, got %d", len(got))
	}
	if got[0].Range != "0-100" || got[9].Range != "901+" {
		t.Errorf("unexpected bucket order: %+v", got)
	}
	var sum int64
	for _, b := range got {
		sum += b.Count
	}
	if sum != 5 {
		t.Errorf("expected bucket counts to sum to 5, got %d", sum)
	}
	if got[0].Count != 2 || got[1].Count != 2 || got[9].Count != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
}

func TestAPIHandlers_HandlePieChart(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/piechart?month=3", nil)
	w := httptest.NewRecorder()
	handlers.HandlePieChart(w, req)

	var got []models.CategoryCount
	decodeBody(t, w, &got)

	counts := make(map[string]int64)
	for _, c := range got {
		counts[c.Category] = c.Count
	}
	if counts["electronics"] != 2 || counts["jewelery"] != 1 || counts["men's clothing"] != 1 || counts["women's clothing"] != 1 {
		t.Errorf("unexpected distribution: %+v", got)
	}
}

func TestAPIHandlers_HandleCombined(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/combined-data?month=3&search=backpack", nil)
	w := httptest.NewRecorder()
	handlers.HandleCombined(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var raw map[string]json.RawMessage
	decodeBody(t, w, &raw)
	for _, key := range []string{"transactions", "statistics", "barChart", "pieChart"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in combined response", key)
		}
	}

	var txs []models.Transaction
	if err := json.Unmarshal(raw["transactions"], &txs); err != nil {
		t.Fatal(err)
	}
	if len(txs) != 5 {
		t.Errorf("combined should ignore search, expected 5 transactions, got %d", len(txs))
	}
}

func TestAPIHandlers_HandleSeed(t *testing.T) {
	fresh := []models.Transaction{
		{Title: "Seeded", Price: 12, Category: "misc", DateOfSale: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	handlers, s := createTestAPIHandlers(func(context.Context) ([]models.Transaction, error) { return fresh, nil })

	req := httptest.NewRequest(http.MethodGet, "/api/seed", nil)
	w := httptest.NewRecorder()
	handlers.HandleSeed(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var got map[string]string
	decodeBody(t, w, &got)
	if got["message"] != "Database seeded successfully" {
		t.Errorf("unexpected message %q", got["message"])
	}

	n, _ := s.CountAll(context.Background())
	if n != 1 {
		t.Errorf("expected 1 record after seed, got %d", n)
	}
}

func TestAPIHandlers_HandleSeed_UpstreamFailure(t *testing.T) {
	handlers, s := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/seed", nil)
	w := httptest.NewRecorder()
	handlers.HandleSeed(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
	n, _ := s.CountAll(context.Background())
	if n != int64(len(testTransactions())) {
		t.Errorf("failed seed should keep the dataset, got %d records", n)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers, _ := createTestAPIHandlers(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]any
	decodeBody(t, w, &response)
	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}
	data, ok := response["data"].(map[string]any)
	if !ok || data["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", response["data"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	fresh := testTransactions()[:2]
	handlers, _ := createTestAPIHandlers(func(context.Context) ([]models.Transaction, error) { return fresh, nil })

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	handlers.HandleStats(w, req)

	var before struct {
		Data map[string]any `json:"data"`
	}
	decodeBody(t, w, &before)
	if before.Data["record_count"] != float64(6) || before.Data["backend"] != "memory" {
		t.Errorf("unexpected stats: %v", before.Data)
	}
	if _, ok := before.Data["last_seeded"]; ok {
		t.Error("last_seeded should be absent before any seed")
	}

	handlers.HandleSeed(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/seed", nil))

	w = httptest.NewRecorder()
	handlers.HandleStats(w, req)
	var after struct {
		Data map[string]any `json:"data"`
	}
	decodeBody(t, w, &after)
	if after.Data["record_count"] != float64(2) || after.Data["last_seed_count"] != float64(2) {
		t.Errorf("unexpected stats after seed: %v", after.Data)
	}
	if _, ok := after.Data["last_seeded"]; !ok {
		t.Error("expected last_seeded after seed")
	}
}
