package models

import "time"

// PomodoroSession records one reset timer run with at least one completed cycle.
// Durations are minutes, TotalFocusTime is seconds.
type PomodoroSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	EventID         *string   `json:"eventId,omitempty"`
	WorkDuration    int       `json:"workDuration"`
	BreakDuration   int       `json:"breakDuration"`
	CyclesCompleted int       `json:"cyclesCompleted"`
	TotalFocusTime  int       `json:"totalFocusTime"`
	CreatedAt       time.Time `json:"createdAt"`

	// EventTitle is filled in when sessions are listed with their event.
	EventTitle string `json:"eventTitle,omitempty"`
}
