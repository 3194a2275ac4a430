package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/jonboulle/clockwork"

	"pomify/internal/core/model"
	"pomify/internal/core/timer"
	"pomify/internal/logging"
	"pomify/internal/models"
	"pomify/internal/platform"
	"pomify/internal/storage"
	"pomify/internal/store"
	"pomify/internal/tracker"
	"pomify/internal/ui/preferences"
	"pomify/internal/ui/timerview"
	"pomify/internal/ui/tray"
	"pomify/resources"
)

const (
	appName    = "Pomify"
	localEmail = "local@pomify"
)

func main() {
	logger := logging.Init(envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", "text"))

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	prefs, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}

	history, err := openHistory(logger)
	if err != nil {
		logger.Error("open session history", "error", err)
		os.Exit(1)
	}
	defer history.Close()

	fyneApp := app.NewWithID("com.pomify.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))

	var (
		machine *timer.Machine
		view    *timerview.Window
	)

	machine = timer.New(prefs.Timer, timer.Config{
		Notifier: platform.DeviceNotifier{
			Chime:    platform.NewChime(logger),
			Vibrator: platform.NewVibrator(logger),
		},
		Logger: logger,
		OnSessionComplete: func(cycles, focusedSeconds int) {
			settings := machine.Settings()
			input := tracker.SessionInput{
				EventID:         view.SelectedEventID(),
				WorkDuration:    settings.WorkDuration,
				BreakDuration:   settings.BreakDuration,
				CyclesCompleted: cycles,
				FocusedSeconds:  focusedSeconds,
			}
			go func() {
				history.record(input)
				history.refresh(view)
			}()
		},
	})
	defer machine.Close()

	view = timerview.New(fyneApp, timer.Event{State: machine.State()}, timerview.Callbacks{
		OnStart: machine.Start,
		OnPause: machine.Pause,
		OnReset: machine.Reset,
		OnEventSelected: func(eventID string) {
			logger.Debug("event selected", "event_id", eventID)
		},
		OnAddEvent: func(title string) {
			go func() {
				history.addEvent(title)
				history.refresh(view)
			}()
		},
	})
	go history.refresh(view)

	idle := &idleControl{logger: logger, machine: machine}
	idle.apply(prefs)
	defer idle.stop()

	prefsWindow := preferences.New(fyneApp, prefs, func(updated model.Preferences) {
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Error("save settings", "error", err)
		}
		current := machine.Settings()
		if current.WorkDuration != updated.Timer.WorkDuration || current.BreakDuration != updated.Timer.BreakDuration {
			machine.UpdateSettings(updated.Timer)
		} else {
			machine.SetSoundEnabled(updated.Timer.SoundEnabled)
		}
		idle.apply(updated)
	})

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, machine.State(), tray.Callbacks{
			OnShowTimer:   view.Show,
			OnPreferences: prefsWindow.Show,
			OnToggle: func() {
				if machine.State().IsRunning {
					machine.Pause()
				} else {
					machine.Start()
				}
			},
			OnReset: machine.Reset,
			OnQuit:  fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(trayIcon(machine.State()))
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	events := machine.Subscribe(16)
	go func() {
		for event := range events {
			view.Render(event)
			if trayManager != nil {
				state := event.State
				fyne.Do(func() {
					trayManager.SetState(state)
					desktopApp.SetSystemTrayIcon(trayIcon(state))
				})
			}
			if event.Type == timer.EventPhaseComplete {
				fyneApp.SendNotification(phaseNotification(event.State))
			}
		}
	}()

	view.Show()
	fyneApp.Run()
}

// history owns the local session database and the single local profile.
type history struct {
	db      *store.DB
	tracker *tracker.Service
	userID  string
	logger  *slog.Logger
}

func openHistory(logger *slog.Logger) (*history, error) {
	dbPath, err := storage.DatabasePath(appName)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	clock := clockwork.NewRealClock()
	user, err := store.NewUserStore(db, clock).Ensure(context.Background(), localEmail)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure local profile: %w", err)
	}

	service := tracker.NewService(
		store.NewEventStore(db, clock),
		store.NewSessionStore(db, clock),
		nil,
		logger,
	)
	return &history{db: db, tracker: service, userID: user.ID, logger: logger}, nil
}

func (h *history) Close() {
	if err := h.db.Close(); err != nil {
		h.logger.Warn("close session history", "error", err)
	}
}

func (h *history) record(input tracker.SessionInput) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := h.tracker.RecordSession(ctx, h.userID, input); err != nil {
		h.logger.Error("record session", "error", err, "event_id", input.EventID)
	}
}

func (h *history) addEvent(title string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := h.tracker.CreateEvent(ctx, h.userID, models.EventInput{Title: title}); err != nil {
		h.logger.Error("create event", "error", err)
	}
}

func (h *history) refresh(view *timerview.Window) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, err := h.tracker.ListEvents(ctx, h.userID)
	if err != nil {
		h.logger.Error("list events", "error", err)
		return
	}
	view.SetEvents(events)
}

// idleControl runs the idle watcher while pausing on idle is enabled.
type idleControl struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	logger  *slog.Logger
	machine *timer.Machine
}

func (control *idleControl) apply(prefs model.Preferences) {
	control.stop()
	if !prefs.PauseWhenIdle {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	control.mu.Lock()
	control.cancel = cancel
	control.mu.Unlock()

	watcher := &platform.IdleWatcher{
		Provider:  platform.NewIdleProvider(),
		Threshold: prefs.IdleAfter,
		Logger:    control.logger,
		OnIdle: func() {
			if control.machine.State().IsRunning {
				control.logger.Info("user idle, pausing timer", "after", prefs.IdleAfter)
				control.machine.Pause()
			}
		},
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			control.logger.Warn("idle watcher stopped", "error", err)
		}
	}()
}

func (control *idleControl) stop() {
	control.mu.Lock()
	defer control.mu.Unlock()
	if control.cancel != nil {
		control.cancel()
		control.cancel = nil
	}
}

func trayIcon(state model.TimerState) fyne.Resource {
	switch {
	case !state.IsRunning:
		return resources.MustIcon(resources.IconPaused)
	case state.IsWork:
		return resources.MustIcon(resources.IconActive)
	default:
		return resources.MustIcon(resources.IconBreak)
	}
}

func phaseNotification(state model.TimerState) *fyne.Notification {
	if state.IsWork {
		return fyne.NewNotification("Break over", "Time to focus for "+timer.FormatTime(state.Remaining)+".")
	}
	return fyne.NewNotification("Focus session done", "Take a "+timer.FormatTime(state.Remaining)+" break.")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
