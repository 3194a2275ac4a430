package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"pomify/internal/models"
)

// TokenStore persists bearer tokens.
type TokenStore struct {
	db    *DB
	clock clockwork.Clock
}

func NewTokenStore(db *DB, clock clockwork.Clock) *TokenStore {
	return &TokenStore{db: db, clock: clock}
}

// Create issues a new random token for the user valid for ttl.
func (s *TokenStore) Create(ctx context.Context, userID string, ttl time.Duration) (*models.AuthToken, error) {
	issued := now(s.clock)
	t := &models.AuthToken{
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: issued,
		ExpiresAt: issued.Add(ttl),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, t.Token, t.UserID, toMillis(t.CreatedAt), toMillis(t.ExpiresAt))
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}
	return t, nil
}

// Lookup returns a token that has not expired. Unknown and expired tokens
// both return ErrNotFound.
func (s *TokenStore) Lookup(ctx context.Context, token string) (*models.AuthToken, error) {
	var t models.AuthToken
	var createdAt, expiresAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, created_at, expires_at
		FROM auth_tokens WHERE token = ? AND expires_at > ?
	`, token, toMillis(now(s.clock))).Scan(&t.Token, &t.UserID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	t.CreatedAt = fromMillis(createdAt)
	t.ExpiresAt = fromMillis(expiresAt)
	return &t, nil
}

// Delete revokes a token. Deleting an unknown token is not an error.
func (s *TokenStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteExpired removes every expired token and returns how many were removed.
func (s *TokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at <= ?`, toMillis(now(s.clock)))
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return result.RowsAffected()
}
