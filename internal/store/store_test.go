package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomify/internal/models"
)

type fixture struct {
	db       *DB
	clock    *clockwork.FakeClock
	users    *UserStore
	tokens   *TokenStore
	events   *EventStore
	sessions *SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pomify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return &fixture{
		db:       db,
		clock:    clock,
		users:    NewUserStore(db, clock),
		tokens:   NewTokenStore(db, clock),
		events:   NewEventStore(db, clock),
		sessions: NewSessionStore(db, clock),
	}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), email, "hash")
	require.NoError(t, err)
	return u
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pomify.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	has, err := columnExists(db.DB, "events", "deleted_at")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestUserStore_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.Create(ctx, "  Ada@Example.COM ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)

	byEmail, err := f.users.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created, byEmail)

	byID, err := f.users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	_, err = f.users.Create(ctx, "ada@example.com", "other")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_Ensure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.users.Ensure(ctx, "local@pomify")
	require.NoError(t, err)
	second, err := f.users.Ensure(ctx, "local@pomify")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, first.PasswordHash)
}

func TestTokenStore_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ada@example.com")

	token, err := f.tokens.Create(ctx, u.ID, time.Hour)
	require.NoError(t, err)

	found, err := f.tokens.Lookup(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.UserID)

	f.clock.Advance(time.Hour)
	_, err = f.tokens.Lookup(ctx, token.Token)
	assert.ErrorIs(t, err, ErrNotFound, "expired token")

	removed, err := f.tokens.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	fresh, err := f.tokens.Create(ctx, u.ID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.tokens.Delete(ctx, fresh.Token))
	require.NoError(t, f.tokens.Delete(ctx, fresh.Token))
	_, err = f.tokens.Lookup(ctx, fresh.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventStore_CreateUpdateGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ada@example.com")

	e, err := f.events.Create(ctx, u.ID, models.EventInput{Title: "Write report", EstimatedHours: 1, EstimatedMinutes: 30})
	require.NoError(t, err)
	assert.Zero(t, e.TotalFocusTime)
	assert.False(t, e.IsDeleted)

	f.clock.Advance(time.Minute)
	title := "Write final report"
	done := true
	updated, err := f.events.Update(ctx, u.ID, e.ID, models.EventPatch{Title: &title, IsCompleted: &done})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, 1, updated.EstimatedHours, "unpatched fields keep their value")
	assert.Equal(t, e.CreatedAt, updated.CreatedAt)
	assert.Equal(t, e.CreatedAt.Add(time.Minute), updated.UpdatedAt)
}

func TestEventStore_SoftDeleteAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ada@example.com")

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		e, err := f.events.Create(ctx, u.ID, models.EventInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, e.ID)
		f.clock.Advance(time.Second)
	}

	active, err := f.events.ListActive(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "third", active[0].Title, "newest first")

	require.NoError(t, f.events.SoftDelete(ctx, u.ID, ids[0]))
	f.clock.Advance(time.Second)
	require.NoError(t, f.events.SoftDelete(ctx, u.ID, ids[2]))

	active, err = f.events.ListActive(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ids[1], active[0].ID)

	deleted, err := f.events.ListDeleted(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, deleted, 2)
	assert.Equal(t, ids[2], deleted[0].ID, "most recently deleted first")
	require.NotNil(t, deleted[0].DeletedAt)
	assert.True(t, deleted[0].IsDeleted)

	require.NoError(t, f.events.Restore(ctx, u.ID, ids[2]))
	restored, err := f.events.Get(ctx, u.ID, ids[2])
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)

	active, err = f.events.ListActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestEventStore_AddFocusTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ada@example.com")
	e, err := f.events.Create(ctx, u.ID, models.EventInput{Title: "focus"})
	require.NoError(t, err)

	require.NoError(t, f.events.AddFocusTime(ctx, u.ID, e.ID, 1500))
	require.NoError(t, f.events.AddFocusTime(ctx, u.ID, e.ID, 300))

	got, err := f.events.Get(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1800, got.TotalFocusTime)
}

func TestEventStore_ForeignUserIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	e, err := f.events.Create(ctx, owner.ID, models.EventInput{Title: "private"})
	require.NoError(t, err)

	_, err = f.events.Get(ctx, other.ID, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.events.SoftDelete(ctx, other.ID, e.ID), ErrNotFound)
	assert.ErrorIs(t, f.events.Restore(ctx, other.ID, e.ID), ErrNotFound)
	assert.ErrorIs(t, f.events.AddFocusTime(ctx, other.ID, e.ID, 60), ErrNotFound)
	title := "stolen"
	_, err = f.events.Update(ctx, other.ID, e.ID, models.EventPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.events.ListActive(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSessionStore_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ada@example.com")
	e, err := f.events.Create(ctx, u.ID, models.EventInput{Title: "Thesis"})
	require.NoError(t, err)

	_, err = f.sessions.Create(ctx, models.PomodoroSession{
		UserID: u.ID, WorkDuration: 25, BreakDuration: 5, CyclesCompleted: 1, TotalFocusTime: 1500,
	})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	withEvent, err := f.sessions.Create(ctx, models.PomodoroSession{
		UserID: u.ID, EventID: &e.ID, WorkDuration: 50, BreakDuration: 10, CyclesCompleted: 2, TotalFocusTime: 6000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, withEvent.ID)

	list, err := f.sessions.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withEvent.ID, list[0].ID)
	assert.Equal(t, "Thesis", list[0].EventTitle)
	require.NotNil(t, list[0].EventID)
	assert.Equal(t, e.ID, *list[0].EventID)
	assert.Nil(t, list[1].EventID)
	assert.Empty(t, list[1].EventTitle)
	assert.Equal(t, 1500, list[1].TotalFocusTime)
}
