package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/db"
	"github.com/benx421/bank-sync/internal/models"
)

// SettingsRepository persists the integration setting's schedule and run state.
// Every write is visible to the next read.
//
// A run owns the setting from TryStartRun until FinishRun through its run id.
// Writes on behalf of a run only land while that run still owns the row.
type SettingsRepository interface {
	Ensure(ctx context.Context, name string, enabled bool, schedule models.Cadence) error
	Get(ctx context.Context, name string) (*models.Settings, error)
	GetStatus(ctx context.Context, name string) (models.RunStatus, error)
	TryStartRun(ctx context.Context, name string, runID uuid.UUID, window models.SyncWindow, at time.Time) (bool, error)
	StopRequested(ctx context.Context, name string, runID uuid.UUID) (bool, error)
	SaveProgress(ctx context.Context, name string, runID uuid.UUID, state models.RunState) error
	FinishRun(ctx context.Context, name string, runID uuid.UUID, state models.RunState) (models.RunStatus, error)
	RequestStop(ctx context.Context, name string) (models.RunStatus, error)
	SetStatus(ctx context.Context, name string, status models.RunStatus) error
	ResetRun(ctx context.Context, name string) (bool, error)
	FailStaleRun(ctx context.Context, name string, staleAfter time.Duration) (bool, error)
}

// settingsRepository implements SettingsRepository
type settingsRepository struct {
	db db.Querier
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(q db.Querier) SettingsRepository {
	return &settingsRepository{db: q}
}

// Ensure creates the setting or refreshes its configuration-owned fields.
// Run state is left untouched.
func (r *settingsRepository) Ensure(ctx context.Context, name string, enabled bool, schedule models.Cadence) error {
	query := `
		INSERT INTO sync_settings (name, enabled, sync_schedule)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    sync_schedule = EXCLUDED.sync_schedule,
		    updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, name, enabled, schedule); err != nil {
		return fmt.Errorf("failed to ensure settings: %w", err)
	}
	return nil
}

// Get retrieves a setting by name
func (r *settingsRepository) Get(ctx context.Context, name string) (*models.Settings, error) {
	query := `
		SELECT name, enabled, sync_schedule, status, from_date, to_date,
		       processed_records, total_records, created_records, error_records,
		       progress, last_sync_at, last_completed_at, stop_requested
		FROM sync_settings
		WHERE name = $1
	`

	var s models.Settings
	var fromDate, toDate, lastSync, lastCompleted sql.NullTime
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&s.Name,
		&s.Enabled,
		&s.Schedule,
		&s.Status,
		&fromDate,
		&toDate,
		&s.ProcessedRecords,
		&s.TotalRecords,
		&s.CreatedRecords,
		&s.ErrorRecords,
		&s.Progress,
		&lastSync,
		&lastCompleted,
		&s.StopRequested,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settings %q not found: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	s.FromDate = nullTimePtr(fromDate)
	s.ToDate = nullTimePtr(toDate)
	s.LastSyncAt = nullTimePtr(lastSync)
	s.LastCompletedAt = nullTimePtr(lastCompleted)

	return &s, nil
}

// GetStatus reads only the run status.
func (r *settingsRepository) GetStatus(ctx context.Context, name string) (models.RunStatus, error) {
	var status models.RunStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM sync_settings WHERE name = $1`, name).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("settings %q not found: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get run status: %w", err)
	}
	return status, nil
}

// TryStartRun hands the setting to runID and moves it to In Progress unless a
// run already holds it, in a single statement. It reports whether this caller
// won the transition.
func (r *settingsRepository) TryStartRun(ctx context.Context, name string, runID uuid.UUID, window models.SyncWindow, at time.Time) (bool, error) {
	query := `
		UPDATE sync_settings
		SET status = $2,
		    run_id = $3,
		    stop_requested = FALSE,
		    from_date = $4,
		    to_date = $5,
		    processed_records = 0,
		    total_records = 0,
		    created_records = 0,
		    error_records = 0,
		    progress = 0,
		    last_sync_at = $6,
		    updated_at = NOW()
		WHERE name = $1 AND status <> $2
	`

	result, err := r.db.ExecContext(ctx, query, name, models.RunStatusInProgress, runID, window.From, window.To, at)
	if err != nil {
		return false, fmt.Errorf("failed to start run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// StopRequested reports whether runID should stop: a stop was requested or
// the run no longer owns the setting.
func (r *settingsRepository) StopRequested(ctx context.Context, name string, runID uuid.UUID) (bool, error) {
	query := `
		SELECT stop_requested OR status <> $3 OR run_id IS DISTINCT FROM $2
		FROM sync_settings
		WHERE name = $1
	`

	var stop bool
	err := r.db.QueryRowContext(ctx, query, name, runID, models.RunStatusInProgress).Scan(&stop)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("settings %q not found: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read stop request: %w", err)
	}
	return stop, nil
}

// SaveProgress writes the counters of a running sync without touching status.
// The write doubles as the run's heartbeat.
func (r *settingsRepository) SaveProgress(ctx context.Context, name string, runID uuid.UUID, state models.RunState) error {
	query := `
		UPDATE sync_settings
		SET processed_records = $3,
		    total_records = $4,
		    created_records = $5,
		    error_records = $6,
		    progress = $7,
		    updated_at = NOW()
		WHERE name = $1 AND run_id = $2 AND status = $8
	`

	result, err := r.db.ExecContext(ctx, query, name, runID,
		state.ProcessedRecords, state.TotalRecords, state.CreatedRecords, state.ErrorRecords, state.Progress,
		models.RunStatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("save progress for %q: %w", name, models.ErrRunSuperseded)
	}
	return nil
}

// FinishRun writes the terminal state and gives up the setting. A stop
// requested while the run was in flight turns the status into Stopped. It
// returns the status actually persisted, or ErrRunSuperseded when runID no
// longer owns the setting.
func (r *settingsRepository) FinishRun(ctx context.Context, name string, runID uuid.UUID, state models.RunState) (models.RunStatus, error) {
	query := `
		UPDATE sync_settings
		SET status = CASE WHEN stop_requested THEN $9 ELSE $3 END,
		    stop_requested = FALSE,
		    processed_records = $4,
		    total_records = $5,
		    created_records = $6,
		    error_records = $7,
		    progress = $8,
		    last_completed_at = CASE WHEN stop_requested THEN last_completed_at
		                             ELSE COALESCE($10, last_completed_at) END,
		    updated_at = NOW()
		WHERE name = $1 AND run_id = $2 AND status = $11
		RETURNING status
	`

	var status models.RunStatus
	err := r.db.QueryRowContext(ctx, query, name, runID,
		state.Status,
		state.ProcessedRecords,
		state.TotalRecords,
		state.CreatedRecords,
		state.ErrorRecords,
		state.Progress,
		models.RunStatusStopped,
		state.LastCompletedAt,
		models.RunStatusInProgress,
	).Scan(&status)

	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("finish run for %q: %w", name, models.ErrRunSuperseded)
	}
	if err != nil {
		return "", fmt.Errorf("failed to finish run: %w", err)
	}
	return status, nil
}

// RequestStop flags a run in progress to stop before its next page; the run
// keeps the setting until it finishes. An idle setting is marked Stopped
// directly. It returns the status after the request.
func (r *settingsRepository) RequestStop(ctx context.Context, name string) (models.RunStatus, error) {
	query := `
		UPDATE sync_settings
		SET stop_requested = (status = $2),
		    status = CASE WHEN status = $2 THEN status ELSE $3 END,
		    updated_at = NOW()
		WHERE name = $1
		RETURNING status
	`

	var status models.RunStatus
	err := r.db.QueryRowContext(ctx, query, name, models.RunStatusInProgress, models.RunStatusStopped).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("settings %q not found: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to request stop: %w", err)
	}
	return status, nil
}

// SetStatus overwrites the status of an idle setting. A run in progress is
// left alone.
func (r *settingsRepository) SetStatus(ctx context.Context, name string, status models.RunStatus) error {
	query := `UPDATE sync_settings SET status = $2, updated_at = NOW() WHERE name = $1 AND status <> $3`
	if _, err := r.db.ExecContext(ctx, query, name, status, models.RunStatusInProgress); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return nil
}

// ResetRun returns an idle setting to Not Started with zeroed counters. It
// reports false when the setting is missing or a run is in progress.
func (r *settingsRepository) ResetRun(ctx context.Context, name string) (bool, error) {
	query := `
		UPDATE sync_settings
		SET status = $2,
		    stop_requested = FALSE,
		    processed_records = 0,
		    total_records = 0,
		    created_records = 0,
		    error_records = 0,
		    progress = 0,
		    updated_at = NOW()
		WHERE name = $1 AND status <> $3
	`
	result, err := r.db.ExecContext(ctx, query, name, models.RunStatusNotStarted, models.RunStatusInProgress)
	if err != nil {
		return false, fmt.Errorf("failed to reset run: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// FailStaleRun marks a run Failed when it is In Progress and has not written
// anything for staleAfter. Age is measured on the database clock.
func (r *settingsRepository) FailStaleRun(ctx context.Context, name string, staleAfter time.Duration) (bool, error) {
	query := `
		UPDATE sync_settings
		SET status = $2, stop_requested = FALSE, updated_at = NOW()
		WHERE name = $1 AND status = $3
		  AND updated_at < NOW() - make_interval(secs => $4)
	`

	result, err := r.db.ExecContext(ctx, query, name, models.RunStatusFailed, models.RunStatusInProgress, staleAfter.Seconds())
	if err != nil {
		return false, fmt.Errorf("failed to recover stale run: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
