package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pomify/internal/models"
	"pomify/internal/store"
)

// MinPasswordLength is the shortest password accepted on sign up.
const MinPasswordLength = 6

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidEmail is returned when the email cannot be parsed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrUnauthenticated is returned for unknown or expired tokens.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// UserRepository is the user persistence the service needs.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// TokenRepository is the token persistence the service needs.
type TokenRepository interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*models.AuthToken, error)
	Lookup(ctx context.Context, token string) (*models.AuthToken, error)
	Delete(ctx context.Context, token string) error
}

// Service signs users up and in and resolves bearer tokens.
type Service struct {
	users  UserRepository
	tokens TokenRepository
	ttl    time.Duration
	cost   int
	logger *slog.Logger
}

// NewService creates an auth service. A cost of zero uses bcrypt.DefaultCost.
func NewService(users UserRepository, tokens TokenRepository, ttl time.Duration, cost int, logger *slog.Logger) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, tokens: tokens, ttl: ttl, cost: cost, logger: logger}
}

// Session is the result of a successful sign up or sign in.
type Session struct {
	User  *models.User      `json:"user"`
	Token *models.AuthToken `json:"token"`
}

// SignUp registers a new account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, string(hash))
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	return s.issue(ctx, user)
}

// SignIn checks the password and issues a new token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	// Passwordless local profiles cannot sign in over the API.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// SignOut revokes the token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.tokens.Delete(ctx, token)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	t, err := s.tokens.Lookup(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, t.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(ctx context.Context, user *models.User) (*Session, error) {
	token, err := s.tokens.Create(ctx, user.ID, s.ttl)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}
