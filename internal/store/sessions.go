package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"pomify/internal/models"
)

// SessionStore persists completed pomodoro sessions.
type SessionStore struct {
	db    *DB
	clock clockwork.Clock
}

func NewSessionStore(db *DB, clock clockwork.Clock) *SessionStore {
	return &SessionStore{db: db, clock: clock}
}

// Create inserts a session. ID and CreatedAt are assigned here.
func (s *SessionStore) Create(ctx context.Context, session models.PomodoroSession) (*models.PomodoroSession, error) {
	session.ID = uuid.New().String()
	session.CreatedAt = now(s.clock)

	var eventID sql.NullString
	if session.EventID != nil {
		eventID = sql.NullString{String: *session.EventID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pomodoro_sessions
			(id, user_id, event_id, work_duration, break_duration, cycles_completed, total_focus_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.UserID, eventID, session.WorkDuration, session.BreakDuration,
		session.CyclesCompleted, session.TotalFocusTime, toMillis(session.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &session, nil
}

// ListByUser returns the user's sessions newest first, with the title of
// the linked event when there is one.
func (s *SessionStore) ListByUser(ctx context.Context, userID string) ([]models.PomodoroSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.event_id, s.work_duration, s.break_duration,
			s.cycles_completed, s.total_focus_time, s.created_at, COALESCE(e.title, '')
		FROM pomodoro_sessions s
		LEFT JOIN events e ON e.id = s.event_id
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC, s.rowid DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.PomodoroSession{}
	for rows.Next() {
		var ps models.PomodoroSession
		var eventID sql.NullString
		var createdAt int64
		if err := rows.Scan(&ps.ID, &ps.UserID, &eventID, &ps.WorkDuration, &ps.BreakDuration,
			&ps.CyclesCompleted, &ps.TotalFocusTime, &createdAt, &ps.EventTitle); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if eventID.Valid {
			id := eventID.String
			ps.EventID = &id
		}
		ps.CreatedAt = fromMillis(createdAt)
		sessions = append(sessions, ps)
	}
	return sessions, rows.Err()
}
