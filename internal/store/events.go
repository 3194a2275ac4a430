package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"pomify/internal/models"
)

const eventColumns = `id, user_id, title, estimated_hours, estimated_minutes, total_focus_time,
	is_completed, is_deleted, deleted_at, created_at, updated_at`

// EventStore persists tracked events. Every method is scoped to a user id;
// rows owned by another user behave as if they did not exist.
type EventStore struct {
	db    *DB
	clock clockwork.Clock
}

func NewEventStore(db *DB, clock clockwork.Clock) *EventStore {
	return &EventStore{db: db, clock: clock}
}

// Create inserts a new active event with zero focus time.
func (s *EventStore) Create(ctx context.Context, userID string, input models.EventInput) (*models.Event, error) {
	created := now(s.clock)
	e := &models.Event{
		ID:               uuid.New().String(),
		UserID:           userID,
		Title:            input.Title,
		EstimatedHours:   input.EstimatedHours,
		EstimatedMinutes: input.EstimatedMinutes,
		CreatedAt:        created,
		UpdatedAt:        created,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, title, estimated_hours, estimated_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.Title, e.EstimatedHours, e.EstimatedMinutes, toMillis(created), toMillis(created))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// Get returns an event whether or not it is soft deleted.
func (s *EventStore) Get(ctx context.Context, userID, id string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update applies a partial update and returns the updated event.
func (s *EventStore) Update(ctx context.Context, userID, id string, patch models.EventPatch) (*models.Event, error) {
	sets := []string{"updated_at = ?"}
	args := []any{toMillis(now(s.clock))}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.EstimatedHours != nil {
		sets = append(sets, "estimated_hours = ?")
		args = append(args, *patch.EstimatedHours)
	}
	if patch.EstimatedMinutes != nil {
		sets = append(sets, "estimated_minutes = ?")
		args = append(args, *patch.EstimatedMinutes)
	}
	if patch.IsCompleted != nil {
		sets = append(sets, "is_completed = ?")
		args = append(args, boolToInt(*patch.IsCompleted))
	}
	args = append(args, id, userID)

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = ? AND user_id = ?`, strings.Join(sets, ", "))
	if err := s.execOne(ctx, "update event", query, args...); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// SoftDelete hides an event from the active list and stamps deleted_at.
func (s *EventStore) SoftDelete(ctx context.Context, userID, id string) error {
	ts := toMillis(now(s.clock))
	return s.execOne(ctx, "soft delete event", `
		UPDATE events SET is_deleted = 1, deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, ts, ts, id, userID)
}

// Restore returns a soft deleted event to the active list.
func (s *EventStore) Restore(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, "restore event", `
		UPDATE events SET is_deleted = 0, deleted_at = NULL, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, toMillis(now(s.clock)), id, userID)
}

// ListActive returns events that are not deleted, newest first.
func (s *EventStore) ListActive(ctx context.Context, userID string) ([]models.Event, error) {
	return s.list(ctx, "list events", `
		SELECT `+eventColumns+` FROM events
		WHERE user_id = ? AND is_deleted = 0
		ORDER BY created_at DESC, rowid DESC
	`, userID)
}

// ListDeleted returns soft deleted events, most recently deleted first.
func (s *EventStore) ListDeleted(ctx context.Context, userID string) ([]models.Event, error) {
	return s.list(ctx, "list deleted events", `
		SELECT `+eventColumns+` FROM events
		WHERE user_id = ? AND is_deleted = 1
		ORDER BY deleted_at DESC, rowid DESC
	`, userID)
}

// AddFocusTime increments total_focus_time by seconds in a single statement.
func (s *EventStore) AddFocusTime(ctx context.Context, userID, id string, seconds int) error {
	return s.execOne(ctx, "add focus time", `
		UPDATE events SET total_focus_time = total_focus_time + ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, seconds, toMillis(now(s.clock)), id, userID)
}

func (s *EventStore) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EventStore) list(ctx context.Context, op, query string, args ...any) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*models.Event, error) {
	var e models.Event
	var isCompleted, isDeleted int
	var deletedAt sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.EstimatedHours, &e.EstimatedMinutes, &e.TotalFocusTime,
		&isCompleted, &isDeleted, &deletedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.IsCompleted = isCompleted != 0
	e.IsDeleted = isDeleted != 0
	if deletedAt.Valid {
		t := fromMillis(deletedAt.Int64)
		e.DeletedAt = &t
	}
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	return &e, nil
}
