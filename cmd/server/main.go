package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"pomify/internal/api"
	"pomify/internal/auth"
	"pomify/internal/config"
	"pomify/internal/logging"
	"pomify/internal/metrics"
	"pomify/internal/store"
	"pomify/internal/tracker"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logger
	logger := logging.Init(cfg.LogLevel, cfg.LogFormat)

	// SQLite
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	clock := clockwork.NewRealClock()
	reg := metrics.NewRegistry()

	// Stores
	users := store.NewUserStore(db, clock)
	tokens := store.NewTokenStore(db, clock)
	events := store.NewEventStore(db, clock)
	sessions := store.NewSessionStore(db, clock)

	// Services
	authSvc := auth.NewService(users, tokens, cfg.TokenTTL, cfg.BcryptCost, logger)
	trackerSvc := tracker.NewService(events, sessions, metrics.NewTrackerMetrics(reg), logger)

	// Router
	router := api.NewRouter(api.RouterConfig{
		DB:            db,
		Auth:          authSvc,
		Tracker:       trackerSvc,
		Registry:      reg,
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		AuthLimiter:   api.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthBurst, clock),
		AllowedOrigin: cfg.AllowedOrigin,
		Logger:        logger,
	})

	// Server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("pomify server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Expired token sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepExpiredTokens(sweepCtx, tokens, clock, logger)

	<-done
	logger.Info("shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

func sweepExpiredTokens(ctx context.Context, tokens *store.TokenStore, clock clockwork.Clock, logger *slog.Logger) {
	ticker := clock.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			removed, err := tokens.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("expired token sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("expired tokens removed", "count", removed)
			}
		}
	}
}
