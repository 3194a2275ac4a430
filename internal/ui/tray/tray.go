package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomify/internal/core/model"
	"pomify/internal/core/timer"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowTimer   func()
	OnPreferences func()
	OnToggle      func()
	OnReset       func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	callbacks  Callbacks
	running    bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, state model.TimerState, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("", func() { call(manager.callbacks.OnToggle) })

	manager.SetState(state)
	return manager
}

// Running reports whether the last state shown was a running timer.
func (manager *Manager) Running() bool {
	return manager.running
}

// SetState updates the status line and the start/pause item.
func (manager *Manager) SetState(state model.TimerState) {
	manager.running = state.IsRunning
	manager.statusItem.Label = statusText(state)
	manager.toggleItem.Label = toggleLabel(state.IsRunning)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomify",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) }),
		fyne.NewMenuItem("Show timer", func() { call(manager.callbacks.OnShowTimer) }),
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	))
}

func statusText(state model.TimerState) string {
	phase := "Focus"
	if !state.IsWork {
		phase = "Break"
	}
	status := fmt.Sprintf("%s %s", phase, timer.FormatTime(state.Remaining))
	if !state.IsRunning {
		status += " (paused)"
	}
	return status
}

func toggleLabel(running bool) string {
	if running {
		return "Pause"
	}
	return "Start"
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
