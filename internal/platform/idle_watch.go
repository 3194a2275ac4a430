package platform

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// IdleWatcher calls OnIdle once each time the user has been idle for at
// least Threshold. It re-arms as soon as input is seen again.
type IdleWatcher struct {
	Provider  IdleProvider
	Threshold time.Duration
	Interval  time.Duration
	Clock     clockwork.Clock
	OnIdle    func()
	Logger    *slog.Logger
}

// Run polls the provider until ctx is cancelled. It returns
// ErrIdleUnsupported when the platform cannot report idle time.
func (watcher *IdleWatcher) Run(ctx context.Context) error {
	clock := watcher.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := watcher.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := watcher.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	fired := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			idle, err := watcher.Provider.IdleDuration()
			if errors.Is(err, ErrIdleUnsupported) {
				logger.Info("idle detection unavailable, watcher stopped")
				return err
			}
			if err != nil {
				logger.Warn("idle check failed", "error", err)
				continue
			}
			if idle < watcher.Threshold {
				fired = false
				continue
			}
			if !fired {
				fired = true
				logger.Debug("user idle", "idle", idle)
				if watcher.OnIdle != nil {
					watcher.OnIdle()
				}
			}
		}
	}
}
