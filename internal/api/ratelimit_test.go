package api

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClient(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(60, 1, clock)

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"), "other clients have their own bucket")

	clock.Advance(time.Second)
	assert.True(t, limiter.Allow("a"))
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(60, 1, clock)
	limiter.Allow("a")

	clock.Advance(11 * time.Minute)
	limiter.Allow("b")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.limiters, 1)
	assert.Contains(t, limiter.limiters, "b")
}
