package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/repository"
)

const defaultReleaseTimeout = 10 * time.Second

// RunGuard keeps at most one run In Progress per setting. Acquire is a single
// conditional update on the persisted status, so racing triggers cannot both
// win. The winner gets a run id; only that id can release the setting.
type RunGuard struct {
	settings       repository.SettingsRepository
	now            func() time.Time
	newID          func() uuid.UUID
	logger         *slog.Logger
	releaseTimeout time.Duration
}

// NewRunGuard creates a RunGuard over the settings store.
func NewRunGuard(settings repository.SettingsRepository, logger *slog.Logger) *RunGuard {
	return &RunGuard{
		settings:       settings,
		now:            time.Now,
		newID:          uuid.New,
		logger:         logger,
		releaseTimeout: defaultReleaseTimeout,
	}
}

// TryAcquire moves the setting to In Progress under a fresh run id,
// resetting counters and stamping last_sync_at. acquired is false when a run
// already holds the guard.
func (g *RunGuard) TryAcquire(ctx context.Context, setting string, window models.SyncWindow) (runID uuid.UUID, acquired bool, err error) {
	runID = g.newID()
	acquired, err = g.settings.TryStartRun(ctx, setting, runID, window, g.now().UTC())
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to acquire run guard: %w", err)
	}
	if !acquired {
		return uuid.Nil, false, nil
	}
	return runID, true, nil
}

// Release writes the terminal state. It runs detached from ctx cancellation
// so a cancelled run still leaves the setting in a terminal status. A
// non-terminal state is written as Failed. The returned status is the one
// persisted, which is Stopped when a stop arrived during the run. A run that
// lost the setting gets models.ErrRunSuperseded and changes nothing.
func (g *RunGuard) Release(ctx context.Context, setting string, runID uuid.UUID, state models.RunState) (models.RunStatus, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.releaseTimeout)
	defer cancel()

	if !state.Status.Terminal() {
		g.logger.Warn("releasing run guard with non-terminal status", "setting", setting, "status", state.Status)
		state = models.RunState{Status: models.RunStatusFailed}
	}
	switch state.Status {
	case models.RunStatusCompleted, models.RunStatusCompletedWithErrors:
		now := g.now().UTC()
		state.LastCompletedAt = &now
	}

	status, err := g.settings.FinishRun(ctx, setting, runID, state)
	if err != nil {
		return "", fmt.Errorf("failed to release run guard: %w", err)
	}
	return status, nil
}

// Recover fails a run left In Progress by a process that died. A run is only
// considered dead once it has been silent for longer than runTimeout plus the
// release grace period, which no live run can be: each page refreshes the row
// and the whole run is bounded by runTimeout.
func (g *RunGuard) Recover(ctx context.Context, setting string, runTimeout time.Duration) error {
	recovered, err := g.settings.FailStaleRun(ctx, setting, runTimeout+g.releaseTimeout)
	if err != nil {
		return err
	}
	if recovered {
		g.logger.Warn("marked stale in-progress run as failed", "setting", setting)
	}
	return nil
}
