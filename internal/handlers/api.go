package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/query"
	"sales-dashboard/internal/services"
)

const (
	version       = "1.0.0"
	healthTimeout = 2 * time.Second
)

// Results change whenever the dataset is reseeded.
var noCache = map[string]string{"Cache-Control": "no-cache"}

type APIHandlers struct {
	analytics *services.Analytics
	seeder    *services.Seeder
	logger    *slog.Logger
	backend   string
}

func NewAPIHandlers(analytics *services.Analytics, seeder *services.Seeder, logger *slog.Logger, backend string) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		seeder:    seeder,
		logger:    logger,
		backend:   backend,
	}
}

func (h *APIHandlers) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := query.ParsePage(q.Get("page"), q.Get("per_page"))

	result, err := h.analytics.List(r.Context(), q.Get("month"), q.Get("search"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, result, noCache)
}

func (h *APIHandlers) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.analytics.Statistics(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, result, noCache)
}

func (h *APIHandlers) HandleBarChart(w http.ResponseWriter, r *http.Request) {
	result, err := h.analytics.Histogram(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, result, noCache)
}

func (h *APIHandlers) HandlePieChart(w http.ResponseWriter, r *http.Request) {
	result, err := h.analytics.Distribution(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, result, noCache)
}

// HandleCombined ignores any search parameter.
func (h *APIHandlers) HandleCombined(w http.ResponseWriter, r *http.Request) {
	result, err := h.analytics.Combined(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, result, noCache)
}

// HandleSeed replaces the dataset. A client hanging up must not abort the
// replace halfway, so the seed runs detached from the request context.
func (h *APIHandlers) HandleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	if _, err := h.seeder.Seed(ctx); err != nil {
		h.writeError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Database seeded successfully"}, nil)
}

// HandleHealth reports unhealthy when the store cannot answer a count.
func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if _, err := h.analytics.Stats(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", "error", err)
		h.writeError(w, r, errors.ServiceUnavailable("Store unavailable"))
		return
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	stats["backend"] = h.backend
	if at, n := h.seeder.LastSeeded(); !at.IsZero() {
		stats["last_seeded"] = at.UTC().Format(time.RFC3339)
		stats["last_seed_count"] = n
	}
	errors.WriteSuccess(w, stats)
}

// HandleNotFound answers unknown routes with the JSON error envelope.
func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, errors.NotFound("Route not found"))
}

func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}
