package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"pomify/internal/auth"
	"pomify/internal/metrics"
	"pomify/internal/store"
	"pomify/internal/tracker"
)

// RouterConfig carries the dependencies of the HTTP API.
type RouterConfig struct {
	DB            *store.DB
	Auth          *auth.Service
	Tracker       *tracker.Service
	Registry      *prometheus.Registry
	HTTPMetrics   *metrics.HTTPMetrics
	AuthLimiter   *RateLimiter
	AllowedOrigin string
	Logger        *slog.Logger
}

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS(origin))
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}

	// Handlers
	healthH := NewHealthHandler(cfg.DB)
	authH := NewAuthHandler(cfg.Auth)
	eventH := NewEventHandler(cfg.Tracker)
	sessionH := NewSessionHandler(cfg.Tracker)

	// Unauthenticated routes
	r.Get("/health", healthH.Health)
	if cfg.Registry != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Registry))
	}

	r.Group(func(r chi.Router) {
		if cfg.AuthLimiter != nil {
			r.Use(cfg.AuthLimiter.Middleware)
		}
		r.Post("/auth/signup", authH.SignUp)
		r.Post("/auth/signin", authH.SignIn)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.RequireUser)

		r.Post("/auth/signout", authH.SignOut)
		r.Get("/auth/me", authH.Me)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventH.List)
			r.Post("/", eventH.Create)
			r.Get("/deleted", eventH.ListDeleted)
			r.Get("/{id}", eventH.Get)
			r.Patch("/{id}", eventH.Update)
			r.Delete("/{id}", eventH.Delete)
			r.Post("/{id}/restore", eventH.Restore)
			r.Post("/{id}/focus", eventH.AddFocus)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionH.List)
			r.Post("/", sessionH.Create)
		})
	})

	return r
}
