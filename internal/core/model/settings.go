package model

import "time"

// Default timer settings used for a fresh install.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// TimerSettings holds the caller-supplied timer configuration.
// Durations are whole minutes and must be positive.
type TimerSettings struct {
	WorkDuration  int
	BreakDuration int
	SoundEnabled  bool
}

// DefaultTimerSettings returns the 25/5 pomodoro with sound on.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		WorkDuration:  DefaultWorkMinutes,
		BreakDuration: DefaultBreakMinutes,
		SoundEnabled:  true,
	}
}

// WorkSeconds returns the work phase length in seconds.
func (settings TimerSettings) WorkSeconds() int {
	return settings.WorkDuration * 60
}

// BreakSeconds returns the break phase length in seconds.
func (settings TimerSettings) BreakSeconds() int {
	return settings.BreakDuration * 60
}

// PhaseSeconds returns the full length of the work or break phase.
func (settings TimerSettings) PhaseSeconds(isWork bool) int {
	if isWork {
		return settings.WorkSeconds()
	}
	return settings.BreakSeconds()
}

// TimerState is the mutable state of the timer state machine.
type TimerState struct {
	Remaining int
	IsRunning bool
	IsWork    bool
	Cycles    int
}

// InitialState returns the state a timer starts in and returns to on reset.
func InitialState(settings TimerSettings) TimerState {
	return TimerState{
		Remaining: settings.WorkSeconds(),
		IsRunning: false,
		IsWork:    true,
		Cycles:    0,
	}
}

// DefaultIdleAfter is how long the user must be inactive before a running
// timer is paused, when pausing on idle is enabled.
const DefaultIdleAfter = 10 * time.Minute

// Preferences are the desktop settings persisted between runs.
type Preferences struct {
	Timer         TimerSettings
	PauseWhenIdle bool
	IdleAfter     time.Duration
}

// DefaultPreferences returns preferences for a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		Timer:         DefaultTimerSettings(),
		PauseWhenIdle: false,
		IdleAfter:     DefaultIdleAfter,
	}
}
