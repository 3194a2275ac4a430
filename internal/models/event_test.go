package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_EstimatedSeconds(t *testing.T) {
	assert.Equal(t, 5400, Event{EstimatedHours: 1, EstimatedMinutes: 30}.EstimatedSeconds())
	assert.Zero(t, Event{}.EstimatedSeconds())
}

func TestEventPatch_IsEmpty(t *testing.T) {
	assert.True(t, EventPatch{}.IsEmpty())

	done := true
	assert.False(t, EventPatch{IsCompleted: &done}.IsEmpty())
}
