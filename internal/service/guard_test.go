package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benx421/bank-sync/internal/models"
	repomocks "github.com/benx421/bank-sync/internal/repository/mocks"
	"github.com/benx421/bank-sync/internal/service"
)

func TestRunGuard_TryAcquire(t *testing.T) {
	settings := repomocks.NewMockSettingsRepository(t)
	var issued []uuid.UUID
	capture := func(args mock.Arguments) { issued = append(issued, args.Get(2).(uuid.UUID)) }
	settings.On("TryStartRun", mock.Anything, settingName, mock.AnythingOfType("uuid.UUID"), testWindow(), mock.AnythingOfType("time.Time")).
		Run(capture).Return(true, nil).Once()
	settings.On("TryStartRun", mock.Anything, settingName, mock.AnythingOfType("uuid.UUID"), testWindow(), mock.AnythingOfType("time.Time")).
		Run(capture).Return(false, nil).Once()

	guard := service.NewRunGuard(settings, testLogger())

	runID, ok, err := guard.TryAcquire(context.Background(), settingName, testWindow())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, issued[0], runID)
	assert.NotEqual(t, uuid.Nil, runID)

	runID, ok, err = guard.TryAcquire(context.Background(), settingName, testWindow())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, runID)
	assert.NotEqual(t, issued[0], issued[1], "every attempt gets its own run id")
}

func TestRunGuard_TryAcquire_Error(t *testing.T) {
	settings := repomocks.NewMockSettingsRepository(t)
	settings.On("TryStartRun", mock.Anything, settingName, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("db down"))

	_, _, err := service.NewRunGuard(settings, testLogger()).TryAcquire(context.Background(), settingName, testWindow())
	assert.ErrorContains(t, err, "failed to acquire run guard")
}

func TestRunGuard_Release(t *testing.T) {
	tests := []struct {
		name          string
		state         models.RunState
		wantStatus    models.RunStatus
		wantCompleted bool
	}{
		{name: "completed stamps completion time", state: models.RunState{Status: models.RunStatusCompleted, ProcessedRecords: 3}, wantStatus: models.RunStatusCompleted, wantCompleted: true},
		{name: "completed with errors stamps completion time", state: models.RunState{Status: models.RunStatusCompletedWithErrors}, wantStatus: models.RunStatusCompletedWithErrors, wantCompleted: true},
		{name: "failed keeps previous completion time", state: models.RunState{Status: models.RunStatusFailed}, wantStatus: models.RunStatusFailed},
		{name: "stopped", state: models.RunState{Status: models.RunStatusStopped, ProcessedRecords: 5}, wantStatus: models.RunStatusStopped},
		{name: "non-terminal becomes failed", state: models.RunState{Status: models.RunStatusInProgress, ProcessedRecords: 9}, wantStatus: models.RunStatusFailed},
	}

	runID := uuid.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := repomocks.NewMockSettingsRepository(t)
			settings.On("FinishRun", mock.Anything, settingName, runID, mock.MatchedBy(func(s models.RunState) bool {
				return s.Status == tt.wantStatus && (s.LastCompletedAt != nil) == tt.wantCompleted
			})).Return(tt.wantStatus, nil).Once()

			status, err := service.NewRunGuard(settings, testLogger()).Release(context.Background(), settingName, runID, tt.state)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestRunGuard_Release_IgnoresCancelledContext(t *testing.T) {
	settings := repomocks.NewMockSettingsRepository(t)
	settings.On("FinishRun", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), settingName, mock.Anything, mock.Anything).Return(models.RunStatusFailed, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.NewRunGuard(settings, testLogger()).Release(ctx, settingName, uuid.New(), models.RunState{Status: models.RunStatusFailed})
	require.NoError(t, err)
}

func TestRunGuard_Release_Superseded(t *testing.T) {
	settings := repomocks.NewMockSettingsRepository(t)
	settings.On("FinishRun", mock.Anything, settingName, mock.Anything, mock.Anything).
		Return(models.RunStatus(""), models.ErrRunSuperseded).Once()

	_, err := service.NewRunGuard(settings, testLogger()).
		Release(context.Background(), settingName, uuid.New(), models.RunState{Status: models.RunStatusCompleted})
	assert.ErrorIs(t, err, models.ErrRunSuperseded)
}

func TestRunGuard_Recover(t *testing.T) {
	settings := repomocks.NewMockSettingsRepository(t)
	// Silence must outlast the run timeout plus the release grace period.
	settings.On("FailStaleRun", mock.Anything, settingName, time.Hour+10*time.Second).Return(true, nil).Once()
	settings.On("FailStaleRun", mock.Anything, settingName, mock.Anything).Return(false, errors.New("db down")).Once()

	guard := service.NewRunGuard(settings, testLogger())

	assert.NoError(t, guard.Recover(context.Background(), settingName, time.Hour))
	assert.Error(t, guard.Recover(context.Background(), settingName, time.Hour))
}
