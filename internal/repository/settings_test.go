//go:build integration

package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benx421/bank-sync/internal/models"
)

func testSyncWindow(t *testing.T) models.SyncWindow {
	t.Helper()
	w, err := models.NewSyncWindow(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return w
}

func TestSettingsRepository_EnsureAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()

	_, err := repo.Get(ctx, "default")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.Ensure(ctx, "default", true, models.CadenceDaily))
	s, err := repo.Get(ctx, "default")
	require.NoError(t, err)
	assert.True(t, s.Enabled)
	assert.Equal(t, models.CadenceDaily, s.Schedule)
	assert.Equal(t, models.RunStatusNotStarted, s.Status)
	assert.Nil(t, s.LastSyncAt)

	require.NoError(t, repo.SetStatus(ctx, "default", models.RunStatusCompleted))
	require.NoError(t, repo.Ensure(ctx, "default", false, models.CadenceHourly))
	s, err = repo.Get(ctx, "default")
	require.NoError(t, err)
	assert.False(t, s.Enabled)
	assert.Equal(t, models.CadenceHourly, s.Schedule)
	assert.Equal(t, models.RunStatusCompleted, s.Status, "ensure must not reset run state")
}

func TestSettingsRepository_TryStartRun(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()
	require.NoError(t, repo.Ensure(ctx, "default", true, models.CadenceDaily))

	now := time.Now().UTC()
	runID := uuid.New()
	ok, err := repo.TryStartRun(ctx, "default", runID, testSyncWindow(t), now)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, repo.SaveProgress(ctx, "default", runID, models.RunState{ProcessedRecords: 9, TotalRecords: 9}))

	s, err := repo.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusInProgress, s.Status)
	assert.Equal(t, 9, s.ProcessedRecords)
	require.NotNil(t, s.LastSyncAt)
	require.NotNil(t, s.FromDate)
	assert.Equal(t, "2024-01-01", s.FromDate.Format(time.DateOnly))

	ok, err = repo.TryStartRun(ctx, "default", uuid.New(), testSyncWindow(t), now)
	require.NoError(t, err)
	assert.False(t, ok, "second start while in progress must lose")

	_, err = repo.FinishRun(ctx, "default", runID, models.RunState{Status: models.RunStatusCompleted, ProcessedRecords: 9})
	require.NoError(t, err)
	ok, err = repo.TryStartRun(ctx, "default", uuid.New(), testSyncWindow(t), now)
	require.NoError(t, err)
	assert.True(t, ok)

	s, err = repo.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, 0, s.ProcessedRecords, "a new run starts with zeroed counters")
}

func TestSettingsRepository_TryStartRun_Concurrent(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()
	require.NoError(t, repo.Ensure(ctx, "default", true, models.CadenceDaily))

	var winners atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TryStartRun(ctx, "default", uuid.New(), testSyncWindow(t), time.Now())
			assert.NoError(t, err)
			if ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestSettingsRepository_FinishRun(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()
	require.NoError(t, repo.Ensure(ctx, "default", true, models.CadenceDaily))

	t.Run("writes terminal state", func(t *testing.T) {
		runID := uuid.New()
		ok, err := repo.TryStartRun(ctx, "default", runID, testSyncWindow(t), time.Now())
		require.NoError(t, err)
		require.True(t, ok)

		completedAt := time.Now().UTC()
		status, err := repo.FinishRun(ctx, "default", runID, models.RunState{
			Status:           models.RunStatusCompletedWithErrors,
			ProcessedRecords: 10,
			TotalRecords:     10,
			CreatedRecords:   8,
			ErrorRecords:     1,
			Progress:         100,
			LastCompletedAt:  &completedAt,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RunStatusCompletedWithErrors, status)

		s, err := repo.Get(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, 8, s.CreatedRecords)
		assert.Equal(t, 1, s.ErrorRecords)
		assert.InDelta(t, 100, s.Progress, 0.001)
		assert.NotNil(t, s.LastCompletedAt)
	})

	t.Run("only the owning run can finish", func(t *testing.T) {
		runID := uuid.New()
		ok, err := repo.TryStartRun(ctx, "default", runID, testSyncWindow(t), time.Now())
		require.NoError(t, err)
		require.True(t, ok)

		_, err = repo.FinishRun(ctx, "default", uuid.New(), models.RunState{Status: models.RunStatusCompleted})
		assert.ErrorIs(t, err, models.ErrRunSuperseded)
		assert.ErrorIs(t, repo.SaveProgress(ctx, "default", uuid.New(), models.RunState{}), models.ErrRunSuperseded)

		status, err := repo.GetStatus(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, models.RunStatusInProgress, status)

		_, err = repo.FinishRun(ctx, "default", runID, models.RunState{Status: models.RunStatusFailed})
		require.NoError(t, err)
		_, err = repo.FinishRun(ctx, "default", runID, models.RunState{Status: models.RunStatusCompleted})
		assert.ErrorIs(t, err, models.ErrRunSuperseded, "a run releases at most once")
	})
}

func TestSettingsRepository_StopKeepsGuardUntilRunEnds(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()
	require.NoError(t, repo.Ensure(ctx, "default", true, models.CadenceDaily))

	runA := uuid.New()
	ok, err := repo.TryStartRun(ctx, "default", runA, testSyncWindow(t), time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	stop, err := repo.StopRequested(ctx, "default", runA)
	require.NoError(t, err)
	assert.False(t, stop)

	status, err := repo.RequestStop(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusInProgress, status)

	s, err := repo.Get(ctx, "default")
	require.NoError(t, err)
	assert.True(t, s.StopRequested)

	ok, err = repo.TryStartRun(ctx, "default", uuid.New(), testSyncWindow(t), time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "a stopping run still holds the setting")

	reset, err := repo.ResetRun(ctx, "default")
	require.NoError(t, err)
	assert.False(t, reset)
	require.NoError(t, repo.SetStatus(ctx, "default", models.RunStatusFailed))

	stop, err = repo.StopRequested(ctx, "default", runA)
	require.NoError(t, err)
	assert.True(t, stop)

	status, err = repo.FinishRun(ctx, "default", runA, models.RunState{Status: models.RunStatusCompleted, ProcessedRecords: 3})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusStopped, status)

	s, err = repo.Get(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusStopped, s.Status)
	assert.False(t, s.StopRequested)
	assert.Equal(t, 3, s.ProcessedRecords)

	runB := uuid.New()
	ok, err = repo.TryStartRun(ctx, "default", runB, testSyncWindow(t), time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	stop, err = repo.StopRequested(ctx, "default", runA)
	require.NoError(t, err)
	assert.True(t, stop, "a superseded run must stop")
	stop, err = repo.StopRequested(ctx, "default", runB)
	require.NoError(t, err)
	assert.False(t, stop, "the stop request does not carry over")
}

func TestSettingsRepository_StopWhenIdle(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()
	require.NoError(t, repo.Ensure(ctx, "default", true, models.CadenceDaily))

	status, err := repo.RequestStop(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusStopped, status)

	s, err := repo.Get(ctx, "default")
	require.NoError(t, err)
	assert.False(t, s.StopRequested)

	_, err = repo.RequestStop(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSettingsRepository_ResetAndRecover(t *testing.T) {
	database := setupTestDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()
	require.NoError(t, repo.Ensure(ctx, "default", true, models.CadenceDaily))

	recovered, err := repo.FailStaleRun(ctx, "default", 0)
	require.NoError(t, err)
	assert.False(t, recovered, "nothing is running")

	runID := uuid.New()
	ok, err := repo.TryStartRun(ctx, "default", runID, testSyncWindow(t), time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	recovered, err = repo.FailStaleRun(ctx, "default", time.Hour)
	require.NoError(t, err)
	assert.False(t, recovered, "a run written to recently is alive")

	recovered, err = repo.FailStaleRun(ctx, "default", 0)
	require.NoError(t, err)
	assert.True(t, recovered)

	status, err := repo.GetStatus(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, status)

	_, err = repo.FinishRun(ctx, "default", runID, models.RunState{Status: models.RunStatusCompleted})
	assert.ErrorIs(t, err, models.ErrRunSuperseded, "a recovered run cannot write its result")

	reset, err := repo.ResetRun(ctx, "default")
	require.NoError(t, err)
	assert.True(t, reset)
	status, err = repo.GetStatus(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusNotStarted, status)

	reset, err = repo.ResetRun(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, reset)
}
