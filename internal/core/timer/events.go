package timer

import (
	"time"

	"pomify/internal/core/model"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventStarted         EventType = "started"
	EventPaused          EventType = "paused"
	EventTick            EventType = "tick"
	EventPhaseComplete   EventType = "phase_complete"
	EventReset           EventType = "reset"
	EventSessionComplete EventType = "session_complete"
	EventSettingsChanged EventType = "settings_changed"
)

// Event is a snapshot of the machine sent to observers after a transition.
type Event struct {
	Type     EventType
	State    model.TimerState
	Progress float64
	// Focused is the focused-seconds accumulator at the time of the event.
	Focused int
	At      time.Time
}
