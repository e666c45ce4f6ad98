package trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrip_Transition(t *testing.T) {
	start := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

	tr := &Trip{Status: StatusAssigned}
	tr.Transition(StatusStarted, start)
	require.NotNil(t, tr.StartedAt)
	assert.Equal(t, start, *tr.StartedAt)
	assert.Nil(t, tr.TurnMinutes)

	tr.Transition(StatusStarted, start.Add(time.Hour))
	assert.Equal(t, start, *tr.StartedAt, "start is stamped once")

	tr.Transition(StatusAtGate, start.Add(30*time.Minute))
	assert.Nil(t, tr.CompletedAt)

	done := start.Add(94*time.Minute + 40*time.Second)
	tr.Transition(StatusCompleted, done)
	require.NotNil(t, tr.CompletedAt)
	require.NotNil(t, tr.TurnMinutes)
	assert.Equal(t, 95, *tr.TurnMinutes)

	tr.Transition(StatusCancelled, done.Add(time.Hour))
	assert.Equal(t, done, *tr.CompletedAt, "completion is stamped once")
	assert.Equal(t, StatusCancelled, tr.Status)
}

func TestTrip_FailedWithoutStart(t *testing.T) {
	tr := &Trip{Status: StatusAssigned}
	tr.Transition(StatusFailed, time.Now())

	assert.NotNil(t, tr.CompletedAt)
	assert.Nil(t, tr.TurnMinutes)
	assert.Nil(t, tr.TurnTime())
}
