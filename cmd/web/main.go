package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/backend"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/source"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	openTimeout   = 30 * time.Second
	cacheMaxAge   = "public, max-age=300"
	defaultMonth  = time.March
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard(defaultMonth).Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// newHandler wraps the router in the middleware chain. The first listed
// middleware sees the request first.
func newHandler(cfg *config.Config, srv http.Handler, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"backend", cfg.Store.Backend,
		"seed_on_startup", cfg.Seed.OnStartup,
	)

	openCtx, cancel := context.WithTimeout(context.Background(), openTimeout)
	st, err := backend.Open(openCtx, cfg.Store, logger)
	cancel()
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	fetcher := source.New(cfg.Seed.Source, &http.Client{Timeout: cfg.Seed.Timeout})
	seeder := services.NewSeeder(st, fetcher, logger)
	analytics := services.NewAnalytics(st, logger, services.Options{
		MaxConcurrency: cfg.Query.MaxConcurrency,
		CombinedLimit:  cfg.Query.CombinedLimit,
	})

	if cfg.Seed.OnStartup {
		seedCtx, cancel := context.WithTimeout(context.Background(), cfg.Seed.Timeout)
		start := time.Now()
		if n, err := seeder.Seed(seedCtx); err != nil {
			logger.Warn("startup seed failed, serving existing data", "error", err)
		} else {
			logger.Info("startup seed completed", "records", n, "duration", time.Since(start))
		}
		cancel()
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(server.Services{
		Analytics: analytics,
		Seeder:    seeder,
		Backend:   cfg.Store.Backend,
	}, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, srv, rateLimiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook("store", func(ctx context.Context) error {
		logger.Info("closing store", "backend", cfg.Store.Backend)
		return st.Close(ctx)
	})
	gracefulServer.RegisterShutdownHook("rate limiter", func(ctx context.Context) error {
		rateLimiter.Close()
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
