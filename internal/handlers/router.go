package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"smarttrash-backend/internal/middleware"
	"smarttrash-backend/internal/routing"
)

// Store is everything the API reads and writes
type Store interface {
	BinStore
	RouteStore
	AnalyticsStore
	UserStore
}

// Notifier is the push side of the API
type Notifier interface {
	BinAlerter
	RouteAnnouncer
}

// RouterConfig carries the dependencies of NewRouter
type RouterConfig struct {
	Store     Store
	Optimizer *routing.RouteOptimizer
	Notifier  Notifier
	Hub       Broadcaster

	// WebSocket and /metrics endpoints, mounted when set
	WebSocket http.Handler
	Metrics   http.Handler

	JWTSecret string

	// Shared token bucket for telemetry ingestion
	TelemetryRatePerSec float64
	TelemetryBurst      int
}

// NewRouter builds the HTTP API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.WebSocket != nil {
		r.Method(http.MethodGet, "/ws", cfg.WebSocket)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", Login(cfg.Store, cfg.JWTSecret))

		// Stateless planning over the bins in the request body
		r.Post("/bins/optimize", OptimizeRoute(cfg.Optimizer, cfg.Hub))

		r.With(middleware.RateLimit(cfg.TelemetryRatePerSec, cfg.TelemetryBurst)).
			Post("/bins/telemetry", IngestTelemetry(cfg.Store, cfg.Notifier, cfg.Hub))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Get("/bins", GetBins(cfg.Store))
			r.Get("/bins/priority", GetBinsWithPriority(cfg.Store))
			r.Get("/bins/{id}", GetBin(cfg.Store))
			r.Get("/bins/{id}/history", GetBinHistory(cfg.Store))

			r.Get("/population-by-bin", GetPopulationByBin(cfg.Store))
			r.Get("/fill-rate-by-bin", GetFillRateByBin(cfg.Store))
			r.Get("/trash-weight-correlation", GetTrashWeightCorrelation(cfg.Store))

			r.Get("/routes", GetRoutes(cfg.Store))
			r.Get("/routes/{id}", GetRoute(cfg.Store))

			r.With(middleware.RequireRole("admin")).
				Post("/routes/plan", PlanRoute(cfg.Store, cfg.Optimizer, cfg.Notifier, cfg.Hub))
		})
	})

	return r
}
