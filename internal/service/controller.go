package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/repository"
)

// Trigger sources recorded on jobs.
const (
	SourceManual     = "manual"
	SourceRestart    = "restart"
	SourceScheduled  = "scheduled"
	SourceHistorical = "historical"
)

// StartResult describes the outcome of a start request. Started is false when
// another run already held the guard.
type StartResult struct {
	Window  models.SyncWindow
	Status  models.RunStatus
	Started bool
}

// SyncService implements the operations of one integration setting on top
// of the guard and the worker queue.
type SyncService struct {
	settings repository.SettingsRepository
	guard    *RunGuard
	queue    JobQueue
	auth     AuthTester
	logger   *slog.Logger
	now      func() time.Time
	name     string
}

// NewSyncService creates a SyncService for the setting called name.
func NewSyncService(settings repository.SettingsRepository, guard *RunGuard, queue JobQueue, auth AuthTester, name string, logger *slog.Logger) *SyncService {
	return &SyncService{
		settings: settings,
		guard:    guard,
		queue:    queue,
		auth:     auth,
		logger:   logger.With("component", "sync-controller", "setting", name),
		now:      time.Now,
		name:     name,
	}
}

// Start queues a run over window unless one is already in progress.
func (s *SyncService) Start(ctx context.Context, window models.SyncWindow) (*StartResult, error) {
	return s.start(ctx, window, SourceManual)
}

// Restart resets the run state and starts again. A run in progress is left
// alone and reported as not started.
func (s *SyncService) Restart(ctx context.Context, window models.SyncWindow) (*StartResult, error) {
	settings, err := s.enabledSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.Status == models.RunStatusInProgress {
		s.logger.Info("sync already in progress, restart skipped")
		return &StartResult{Window: window, Status: settings.Status}, nil
	}

	reset, err := s.settings.ResetRun(ctx, s.name)
	if err != nil {
		return nil, s.internal("failed to reset run state", err)
	}
	if !reset {
		s.logger.Info("sync started concurrently, restart skipped")
		return &StartResult{Window: window, Status: models.RunStatusInProgress}, nil
	}
	return s.trigger(ctx, window, SourceRestart)
}

// Stop asks a running sync to stop before its next page; the run keeps the
// guard until it ends as Stopped. An idle setting is marked Stopped at once.
func (s *SyncService) Stop(ctx context.Context) error {
	status, err := s.settings.RequestStop(ctx, s.name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return s.notFound(err)
		}
		return s.internal("failed to stop sync", err)
	}
	if status == models.RunStatusInProgress {
		s.logger.Info("stop requested for running transaction sync")
		return nil
	}
	s.logger.Info("transaction sync marked as stopped")
	return nil
}

// Status returns the persisted setting with its run state.
func (s *SyncService) Status(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settings.Get(ctx, s.name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, s.notFound(err)
		}
		return nil, s.internal("failed to get settings", err)
	}
	return settings, nil
}

// TestAuthentication performs a login and returns a message for the operator.
// A failed login is reported through the message and an auth_failed error.
func (s *SyncService) TestAuthentication(ctx context.Context) (string, error) {
	msg, err := s.auth.TestAuthentication(ctx)
	if err != nil {
		s.logger.Warn("authentication test failed", "error", err)
		return msg, &ServiceError{Code: ErrCodeAuthFailed, Message: msg}
	}
	return msg, nil
}

// StartHistorical runs the configured historical window once, only while the
// setting has never been started.
func (s *SyncService) StartHistorical(ctx context.Context, window models.SyncWindow) (*StartResult, error) {
	settings, err := s.enabledSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.Status != models.RunStatusNotStarted {
		return &StartResult{Window: window, Status: settings.Status}, nil
	}
	return s.trigger(ctx, window, SourceHistorical)
}

// RunScheduled starts a run for cadence if the setting is enabled, scheduled
// at that cadence and idle. An unknown cadence fails the setting.
func (s *SyncService) RunScheduled(ctx context.Context, cadence models.Cadence) (*StartResult, error) {
	settings, err := s.settings.Get(ctx, s.name)
	if err != nil {
		return nil, s.internal("failed to get settings", err)
	}
	if !settings.Enabled || settings.Schedule != cadence || settings.Status == models.RunStatusInProgress {
		return &StartResult{Status: settings.Status}, nil
	}

	window, err := WindowFor(cadence, s.now())
	if err != nil {
		s.logger.Error("scheduled sync failed", "error", err)
		if setErr := s.settings.SetStatus(ctx, s.name, models.RunStatusFailed); setErr != nil {
			s.logger.Error("failed to mark setting as failed", "error", setErr)
		}
		return nil, &ServiceError{Code: ErrCodeInvalidWindow, Message: err.Error()}
	}

	s.logger.Info("starting scheduled sync", "cadence", cadence, "window", window.String())
	return s.trigger(ctx, window, SourceScheduled)
}

func (s *SyncService) start(ctx context.Context, window models.SyncWindow, source string) (*StartResult, error) {
	if _, err := s.enabledSettings(ctx); err != nil {
		return nil, err
	}
	return s.trigger(ctx, window, source)
}

// trigger acquires the guard and queues the job. Losing the guard is a
// successful no-op.
func (s *SyncService) trigger(ctx context.Context, window models.SyncWindow, source string) (*StartResult, error) {
	runID, acquired, err := s.guard.TryAcquire(ctx, s.name, window)
	if err != nil {
		return nil, s.internal("failed to start sync", err)
	}
	if !acquired {
		s.logger.Info("sync already in progress, skipping", "source", source, "reason", ErrConcurrencyConflict)
		return &StartResult{Window: window, Status: models.RunStatusInProgress}, nil
	}

	job := Job{
		Setting:    s.name,
		RunID:      runID,
		Window:     window,
		Source:     source,
		EnqueuedAt: s.now().UTC(),
	}
	if err := s.queue.Enqueue(job); err != nil {
		if _, relErr := s.guard.Release(ctx, s.name, runID, models.RunState{Status: models.RunStatusFailed}); relErr != nil {
			s.logger.Error("failed to release guard after enqueue failure", "error", relErr)
		}
		return nil, &ServiceError{Code: ErrCodeQueueFull, Message: "failed to queue sync job", Err: err}
	}

	s.logger.Info("transaction sync job queued", "source", source, "window", window.String())
	return &StartResult{Window: window, Status: models.RunStatusInProgress, Started: true}, nil
}

func (s *SyncService) enabledSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settings.Get(ctx, s.name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, s.notFound(err)
		}
		return nil, s.internal("failed to get settings", err)
	}
	if !settings.Enabled {
		return nil, &ServiceError{
			Code:    ErrCodeIntegrationDisabled,
			Message: "payments integration is disabled",
		}
	}
	return settings, nil
}

func (s *SyncService) notFound(err error) error {
	return &ServiceError{
		Code:    ErrCodeSettingsNotFound,
		Message: fmt.Sprintf("settings %q not found", s.name),
		Err:     err,
	}
}

func (s *SyncService) internal(msg string, err error) error {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: msg,
		Err:     err,
	}
}
