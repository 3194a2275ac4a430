package platform

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedIdle returns queued readings in order and repeats the last one.
type scriptedIdle struct {
	mu       sync.Mutex
	readings []time.Duration
	err      error
	calls    int
}

func (s *scriptedIdle) IdleDuration() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	reading := s.readings[0]
	if len(s.readings) > 1 {
		s.readings = s.readings[1:]
	}
	return reading, nil
}

func (s *scriptedIdle) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestIdleWatcher_FiresOncePerIdleStretch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &scriptedIdle{readings: []time.Duration{
		time.Minute,
		11 * time.Minute,
		12 * time.Minute,
		time.Second,
		15 * time.Minute,
	}}
	var mu sync.Mutex
	fired := 0
	watcher := &IdleWatcher{
		Provider:  provider,
		Threshold: 10 * time.Minute,
		Interval:  time.Second,
		Clock:     clock,
		OnIdle: func() {
			mu.Lock()
			fired++
			mu.Unlock()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	for i := 1; i <= 5; i++ {
		clock.Advance(time.Second)
		want := i
		require.Eventually(t, func() bool { return provider.callCount() == want }, time.Second, time.Millisecond)
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, fired)
}

func TestIdleWatcher_StopsWhenUnsupported(t *testing.T) {
	clock := clockwork.NewFakeClock()
	watcher := &IdleWatcher{
		Provider:  &scriptedIdle{err: ErrIdleUnsupported},
		Threshold: time.Minute,
		Interval:  time.Second,
		Clock:     clock,
	}

	done := make(chan error, 1)
	go func() { done <- watcher.Run(context.Background()) }()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Second)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrIdleUnsupported)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIdleWatcher_KeepsPollingAfterTransientError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	provider := &scriptedIdle{err: errors.New("xprintidle: exit status 1")}
	watcher := &IdleWatcher{
		Provider:  provider,
		Threshold: time.Minute,
		Interval:  time.Second,
		Clock:     clock,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	for i := 1; i <= 3; i++ {
		clock.Advance(time.Second)
		want := i
		require.Eventually(t, func() bool { return provider.callCount() == want }, time.Second, time.Millisecond)
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
