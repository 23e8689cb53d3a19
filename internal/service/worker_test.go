package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benx421/bank-sync/internal/models"
	repomocks "github.com/benx421/bank-sync/internal/repository/mocks"
	"github.com/benx421/bank-sync/internal/service"
	"github.com/benx421/bank-sync/internal/service/mocks"
)

func TestWorker_RunsQueuedJob(t *testing.T) {
	runner := mocks.NewMockRunner(t)
	done := make(chan struct{})
	runner.On("Execute", mock.Anything, settingName, testRunID, testWindow()).
		Run(func(mock.Arguments) { close(done) }).
		Return(models.RunState{Status: models.RunStatusCompleted}).Once()

	settings := repomocks.NewMockSettingsRepository(t)
	worker := service.NewWorker(runner, service.NewRunGuard(settings, testLogger()), 4, time.Minute, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- worker.Serve(ctx) }()

	require.NoError(t, worker.Enqueue(service.Job{Setting: settingName, RunID: testRunID, Window: testWindow(), Source: service.SourceManual}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestWorker_RunIsBoundedByTimeout(t *testing.T) {
	runner := mocks.NewMockRunner(t)
	deadlineSet := make(chan bool, 1)
	runner.On("Execute", mock.Anything, settingName, mock.AnythingOfType("uuid.UUID"), testWindow()).
		Run(func(args mock.Arguments) {
			_, ok := args.Get(0).(context.Context).Deadline()
			deadlineSet <- ok
		}).
		Return(models.RunState{Status: models.RunStatusCompleted}).Once()

	worker := service.NewWorker(runner, nil, 1, time.Minute, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Serve(ctx) //nolint:errcheck // stopped by cancel

	require.NoError(t, worker.Enqueue(service.Job{Setting: settingName, Window: testWindow()}))

	select {
	case ok := <-deadlineSet:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}
}

func TestWorker_EnqueueFailsWhenFull(t *testing.T) {
	worker := service.NewWorker(mocks.NewMockRunner(t), nil, 1, time.Minute, testLogger())

	require.NoError(t, worker.Enqueue(service.Job{Setting: settingName}))
	assert.ErrorIs(t, worker.Enqueue(service.Job{Setting: settingName}), service.ErrQueueFull)
}

func TestWorker_ShutdownReleasesQueuedJobs(t *testing.T) {
	settings := repomocks.NewMockSettingsRepository(t)
	queued := uuid.New()
	settings.On("FinishRun", mock.Anything, settingName, queued, mock.MatchedBy(func(s models.RunState) bool {
		return s.Status == models.RunStatusFailed
	})).Return(models.RunStatusFailed, nil).Once()

	worker := service.NewWorker(mocks.NewMockRunner(t), service.NewRunGuard(settings, testLogger()), 2, time.Minute, testLogger())
	require.NoError(t, worker.Enqueue(service.Job{Setting: settingName, RunID: queued, Window: testWindow()}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := worker.Serve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
