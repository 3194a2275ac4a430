package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pomify/internal/metrics"
	"pomify/internal/models"
	"pomify/internal/store"
)

// ErrValidation is wrapped by every input validation failure.
var ErrValidation = errors.New("validation failed")

// EventRepository is the event persistence the service needs.
type EventRepository interface {
	Create(ctx context.Context, userID string, input models.EventInput) (*models.Event, error)
	Get(ctx context.Context, userID, id string) (*models.Event, error)
	Update(ctx context.Context, userID, id string, patch models.EventPatch) (*models.Event, error)
	SoftDelete(ctx context.Context, userID, id string) error
	Restore(ctx context.Context, userID, id string) error
	ListActive(ctx context.Context, userID string) ([]models.Event, error)
	ListDeleted(ctx context.Context, userID string) ([]models.Event, error)
	AddFocusTime(ctx context.Context, userID, id string, seconds int) error
}

// SessionRepository is the session persistence the service needs.
type SessionRepository interface {
	Create(ctx context.Context, session models.PomodoroSession) (*models.PomodoroSession, error)
	ListByUser(ctx context.Context, userID string) ([]models.PomodoroSession, error)
}

// Service tracks events and the pomodoro sessions spent on them.
type Service struct {
	events   EventRepository
	sessions SessionRepository
	metrics  *metrics.TrackerMetrics
	logger   *slog.Logger
}

// NewService creates a tracker. m may be nil.
func NewService(events EventRepository, sessions SessionRepository, m *metrics.TrackerMetrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{events: events, sessions: sessions, metrics: m, logger: logger}
}

// CreateEvent validates and stores a new event.
func (s *Service) CreateEvent(ctx context.Context, userID string, input models.EventInput) (*models.Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateEstimate(input.Title, input.EstimatedHours, input.EstimatedMinutes); err != nil {
		return nil, err
	}
	return s.events.Create(ctx, userID, input)
}

// UpdateEvent applies a validated partial update.
func (s *Service) UpdateEvent(ctx context.Context, userID, id string, patch models.EventPatch) (*models.Event, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		patch.Title = &title
	}
	if patch.EstimatedHours != nil && *patch.EstimatedHours < 0 {
		return nil, fmt.Errorf("%w: estimated hours must not be negative", ErrValidation)
	}
	if patch.EstimatedMinutes != nil {
		if err := validateMinutes(*patch.EstimatedMinutes); err != nil {
			return nil, err
		}
	}
	return s.events.Update(ctx, userID, id, patch)
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, userID, id string) (*models.Event, error) {
	return s.events.Get(ctx, userID, id)
}

// ListEvents returns active events, newest first.
func (s *Service) ListEvents(ctx context.Context, userID string) ([]models.Event, error) {
	return s.events.ListActive(ctx, userID)
}

// ListDeletedEvents returns soft deleted events, most recently deleted first.
func (s *Service) ListDeletedEvents(ctx context.Context, userID string) ([]models.Event, error) {
	return s.events.ListDeleted(ctx, userID)
}

// DeleteEvent soft deletes an event. Its sessions keep pointing at it.
func (s *Service) DeleteEvent(ctx context.Context, userID, id string) error {
	return s.events.SoftDelete(ctx, userID, id)
}

// RestoreEvent undoes a soft delete.
func (s *Service) RestoreEvent(ctx context.Context, userID, id string) error {
	return s.events.Restore(ctx, userID, id)
}

// AddFocusTime adds focused seconds to an event.
func (s *Service) AddFocusTime(ctx context.Context, userID, id string, seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: focus seconds must not be negative", ErrValidation)
	}
	if seconds == 0 {
		return nil
	}
	return s.events.AddFocusTime(ctx, userID, id, seconds)
}

// SessionInput is what the timer reports when a session ends.
type SessionInput struct {
	EventID         string `json:"eventId,omitempty"`
	WorkDuration    int    `json:"workDuration"`
	BreakDuration   int    `json:"breakDuration"`
	CyclesCompleted int    `json:"cyclesCompleted"`
	FocusedSeconds  int    `json:"totalFocusTime"`
}

// RecordSession persists a finished session and credits its focus time to
// the selected event. Sessions without a completed cycle are skipped and
// return nil.
func (s *Service) RecordSession(ctx context.Context, userID string, input SessionInput) (*models.PomodoroSession, error) {
	if input.CyclesCompleted <= 0 {
		return nil, nil
	}
	if input.WorkDuration <= 0 || input.BreakDuration <= 0 {
		return nil, fmt.Errorf("%w: durations must be positive", ErrValidation)
	}
	if input.FocusedSeconds < 0 {
		return nil, fmt.Errorf("%w: focus time must not be negative", ErrValidation)
	}

	session := models.PomodoroSession{
		UserID:          userID,
		WorkDuration:    input.WorkDuration,
		BreakDuration:   input.BreakDuration,
		CyclesCompleted: input.CyclesCompleted,
		TotalFocusTime:  input.FocusedSeconds,
	}
	if input.EventID != "" {
		if _, err := s.events.Get(ctx, userID, input.EventID); err != nil {
			return nil, fmt.Errorf("session event %s: %w", input.EventID, err)
		}
		eventID := input.EventID
		session.EventID = &eventID
	}

	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	if created.EventID != nil {
		if err := s.events.AddFocusTime(ctx, userID, *created.EventID, input.FocusedSeconds); err != nil {
			return created, fmt.Errorf("credit focus time: %w", err)
		}
	}

	s.metrics.ObserveSession(created.CyclesCompleted, created.TotalFocusTime)
	s.logger.Info("session recorded",
		"user_id", userID,
		"session_id", created.ID,
		"cycles", created.CyclesCompleted,
		"focus_seconds", created.TotalFocusTime,
	)
	return created, nil
}

// Feed returns the user's sessions in the requested order.
func (s *Service) Feed(ctx context.Context, userID string, order SortOrder) ([]models.PomodoroSession, error) {
	if order == "" {
		order = SortNewest
	}
	if !order.IsValid() {
		return nil, ErrInvalidSortOrder
	}
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	SortSessions(sessions, order)
	return sessions, nil
}

func validateEstimate(title string, hours, minutes int) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if hours < 0 {
		return fmt.Errorf("%w: estimated hours must not be negative", ErrValidation)
	}
	return validateMinutes(minutes)
}

func validateMinutes(minutes int) error {
	if minutes < 0 || minutes > 59 {
		return fmt.Errorf("%w: estimated minutes must be between 0 and 59", ErrValidation)
	}
	return nil
}

// IsNotFound reports whether err means the event or session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
