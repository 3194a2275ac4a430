package models

import "time"

// Event is a task the user focuses on. TotalFocusTime is in seconds.
type Event struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Title            string     `json:"title"`
	EstimatedHours   int        `json:"estimatedHours"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
	TotalFocusTime   int        `json:"totalFocusTime"`
	IsCompleted      bool       `json:"isCompleted"`
	IsDeleted        bool       `json:"isDeleted"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// EstimatedSeconds returns the estimate as seconds.
func (e Event) EstimatedSeconds() int {
	return e.EstimatedHours*3600 + e.EstimatedMinutes*60
}

// EventInput carries the fields a user supplies when creating an event.
type EventInput struct {
	Title            string `json:"title"`
	EstimatedHours   int    `json:"estimatedHours"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// EventPatch is a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title            *string `json:"title,omitempty"`
	EstimatedHours   *int    `json:"estimatedHours,omitempty"`
	EstimatedMinutes *int    `json:"estimatedMinutes,omitempty"`
	IsCompleted      *bool   `json:"isCompleted,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.EstimatedHours == nil && p.EstimatedMinutes == nil && p.IsCompleted == nil
}
