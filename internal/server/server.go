package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

// Services bundles what the handlers need; Backend names the store for
// the admin endpoint.
type Services struct {
	Analytics *services.Analytics
	Seeder    *services.Seeder
	Backend   string
}

func NewServer(svc Services, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(svc.Analytics, svc.Seeder, logger, svc.Backend),
		sseHandlers: handlers.NewSSEHandlers(svc.Analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/transactions", s.apiHandlers.HandleTransactions)
	s.mux.HandleFunc("GET /api/statistics", s.apiHandlers.HandleStatistics)
	s.mux.HandleFunc("GET /api/barchart", s.apiHandlers.HandleBarChart)
	s.mux.HandleFunc("GET /api/piechart", s.apiHandlers.HandlePieChart)
	s.mux.HandleFunc("GET /api/combined-data", s.apiHandlers.HandleCombined)
	s.mux.HandleFunc("GET /api/seed", s.apiHandlers.HandleSeed)
	s.mux.HandleFunc("POST /api/seed", s.apiHandlers.HandleSeed)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/transactions", s.sseHandlers.HandleTransactions)

	s.mux.HandleFunc("/", s.apiHandlers.HandleNotFound)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
