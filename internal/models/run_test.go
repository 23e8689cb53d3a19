package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name      string
		processed int
		total     int
		want      float64
	}{
		{"zero total", 0, 0, 0},
		{"half", 50, 100, 50},
		{"complete", 7, 7, 100},
		{"negative total", 3, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percent(tt.processed, tt.total), 0.0001)
		})
	}
}

func TestRunStatus_Terminal(t *testing.T) {
	assert.False(t, RunStatusNotStarted.Terminal())
	assert.False(t, RunStatusInProgress.Terminal())
	assert.True(t, RunStatusCompleted.Terminal())
	assert.True(t, RunStatusCompletedWithErrors.Terminal())
	assert.True(t, RunStatusFailed.Terminal())
	assert.True(t, RunStatusStopped.Terminal())
}

func TestNewSyncWindow(t *testing.T) {
	from := time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 1, 0, 0, 0, time.UTC)

	w, err := NewSyncWindow(from, to)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", w.FromString())
	assert.Equal(t, "2024-01-31", w.ToString())
	assert.Equal(t, "2024-01-01..2024-01-31", w.String())

	sameDay, err := NewSyncWindow(to, to)
	require.NoError(t, err)
	assert.Equal(t, sameDay.From, sameDay.To)

	_, err = NewSyncWindow(to, from)
	assert.Error(t, err)
}

func TestStatusFromCode(t *testing.T) {
	assert.Equal(t, LogStatusSuccess, StatusFromCode(200))
	assert.Equal(t, LogStatusSuccess, StatusFromCode(204))
	assert.Equal(t, LogStatusError, StatusFromCode(301))
	assert.Equal(t, LogStatusError, StatusFromCode(404))
	assert.Equal(t, LogStatusError, StatusFromCode(500))
	assert.Equal(t, LogStatusError, StatusFromCode(0))
}
