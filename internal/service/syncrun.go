package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/metrics"
	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/payments"
	"github.com/benx421/bank-sync/internal/repository"
)

// EngineDeps are the collaborators of an Engine. Audit may be nil.
type EngineDeps struct {
	Tokens    TokenProvider
	Lister    TransactionLister
	Ledger    repository.LedgerRepository
	Settings  repository.SettingsRepository
	Guard     *RunGuard
	Mapper    *Mapper
	Publisher ProgressPublisher
	Audit     payments.Recorder
}

// Engine executes sync runs: it walks the remote pages of a window, ingests
// each record at most once and reports progress after every page.
type Engine struct {
	tokens    TokenProvider
	lister    TransactionLister
	ledger    repository.LedgerRepository
	settings  repository.SettingsRepository
	guard     *RunGuard
	mapper    *Mapper
	publisher ProgressPublisher
	audit     payments.Recorder
	logger    *slog.Logger
	now       func() time.Time
	pageSize  int
}

// NewEngine creates an Engine fetching pageSize records per page.
func NewEngine(deps EngineDeps, pageSize int, logger *slog.Logger) *Engine {
	return &Engine{
		tokens:    deps.Tokens,
		lister:    deps.Lister,
		ledger:    deps.Ledger,
		settings:  deps.Settings,
		guard:     deps.Guard,
		mapper:    deps.Mapper,
		publisher: deps.Publisher,
		audit:     deps.Audit,
		logger:    logger.With("component", "sync"),
		now:       time.Now,
		pageSize:  payments.ClampPageSize(pageSize),
	}
}

type ingestOutcome int

const (
	outcomeCreated ingestOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// Execute runs one sync for a setting whose guard the caller holds under
// runID, and always releases it. The returned state is the one persisted.
func (e *Engine) Execute(ctx context.Context, setting string, runID uuid.UUID, window models.SyncWindow) models.RunState {
	started := e.now()
	metrics.SyncInProgress.Inc()
	defer metrics.SyncInProgress.Dec()

	logger := e.logger.With("setting", setting, "run_id", runID, "window", window.String())
	e.record(ctx, models.LogStatusInfo, fmt.Sprintf("Starting transaction sync from %s to %s", window.FromString(), window.ToString()))
	logger.Info("starting transaction sync")

	state, runErr := e.runSafely(ctx, setting, runID, window)
	state = settle(state, runErr)

	persisted, err := e.guard.Release(ctx, setting, runID, state)
	switch {
	case errors.Is(err, models.ErrRunSuperseded):
		logger.Warn("run no longer holds the setting, final state not persisted", "status", state.Status)
	case err != nil:
		logger.Error("failed to persist final run state", "error", err)
	default:
		state.Status = persisted
	}

	event := e.event(setting, state)
	switch {
	case runErr != nil && state.Status == models.RunStatusFailed:
		msg := fmt.Sprintf("Transaction sync failed: %v", runErr)
		event.Message = msg
		e.record(ctx, models.LogStatusError, msg)
		logger.Error("transaction sync failed", "error", runErr)
	case state.Status == models.RunStatusStopped:
		event.Message = fmt.Sprintf("Sync stopped after processing %d transactions.", state.ProcessedRecords)
		logger.Info("transaction sync stopped", "processed", state.ProcessedRecords)
	default:
		event.Message = fmt.Sprintf("Sync completed successfully. Created %d transactions.", state.CreatedRecords)
		logger.Info("transaction sync completed",
			"processed", state.ProcessedRecords,
			"created", state.CreatedRecords,
			"errors", state.ErrorRecords,
			"status", state.Status,
		)
	}
	if err := e.publisher.PublishComplete(context.WithoutCancel(ctx), event); err != nil {
		logger.Warn("failed to publish completion event", "error", err)
	}

	metrics.SyncRuns.WithLabelValues(string(state.Status)).Inc()
	metrics.SyncRunDuration.Observe(e.now().Sub(started).Seconds())
	return state
}

// runSafely converts a panic in the run body into a run-level error.
func (e *Engine) runSafely(ctx context.Context, setting string, runID uuid.UUID, window models.SyncWindow) (state models.RunState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync run panicked: %v", r)
		}
	}()
	return e.run(ctx, setting, runID, window)
}

// settle decides the terminal status. Cancellation (shutdown) keeps the
// counters as a stop; any other run-level error, the run deadline included,
// fails the run with zeroed counters.
func settle(state models.RunState, runErr error) models.RunState {
	switch {
	case runErr == nil:
		return state
	case errors.Is(runErr, context.Canceled):
		state.Status = models.RunStatusStopped
		return state
	default:
		return models.RunState{Status: models.RunStatusFailed}
	}
}

func (e *Engine) run(ctx context.Context, setting string, runID uuid.UUID, window models.SyncWindow) (models.RunState, error) {
	state := models.RunState{Status: models.RunStatusInProgress}

	if _, err := e.tokens.GetValidToken(ctx); err != nil {
		return state, fmt.Errorf("cannot obtain access token: %w", err)
	}

	for pageNum := 0; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		stopped, err := e.stopRequested(ctx, setting, runID)
		if err != nil {
			return state, err
		}
		if stopped {
			state.Status = models.RunStatusStopped
			return state, nil
		}

		page, err := e.lister.ListPage(ctx, payments.ListParams{
			Window:   window,
			PageNum:  pageNum,
			PageSize: e.pageSize,
		})
		if err != nil {
			return state, fmt.Errorf("failed to fetch page %d: %w", pageNum, err)
		}
		if page == nil || len(page.Items) == 0 {
			break
		}

		for i := range page.Items {
			if err := ctx.Err(); err != nil {
				return state, err
			}
			outcome, err := e.ingest(ctx, page.Items[i])
			if err != nil && ctx.Err() != nil {
				return state, ctx.Err()
			}

			state.ProcessedRecords++
			switch outcome {
			case outcomeCreated:
				state.CreatedRecords++
				metrics.SyncRecords.WithLabelValues("created").Inc()
			case outcomeSkipped:
				metrics.SyncRecords.WithLabelValues("duplicate").Inc()
			case outcomeFailed:
				state.ErrorRecords++
				metrics.SyncRecords.WithLabelValues("error").Inc()
				e.logger.Error("failed to ingest transaction", "setting", setting, "error", err)
			}
		}

		state.TotalRecords = state.ProcessedRecords
		if page.HasMore {
			state.TotalRecords += e.pageSize
		}
		state.Progress = models.Percent(state.ProcessedRecords, state.TotalRecords)
		e.reportProgress(ctx, setting, runID, state)

		if !page.HasMore {
			break
		}
	}

	state.TotalRecords = state.ProcessedRecords
	state.Progress = models.Percent(state.ProcessedRecords, state.TotalRecords)
	state.Status = models.RunStatusCompleted
	if state.ErrorRecords > 0 {
		state.Status = models.RunStatusCompletedWithErrors
	}
	return state, nil
}

// ingest writes one remote record unless it already exists. Duplicates,
// including one lost to a concurrent insert, are skips.
func (e *Engine) ingest(ctx context.Context, rt models.RemoteTransaction) (ingestOutcome, error) {
	if rt.ID == "" {
		return outcomeFailed, &RecordIngestionError{Stage: StageMap, Err: ErrMissingRemoteID}
	}

	exists, err := e.ledger.ExistsByRemoteID(ctx, rt.ID)
	if err != nil {
		return outcomeFailed, &RecordIngestionError{RemoteID: rt.ID, Stage: StageDedup, Err: err}
	}
	if exists {
		e.logger.Debug("transaction already exists, skipping", "remote_id", rt.ID)
		return outcomeSkipped, nil
	}

	tx, err := e.mapper.Map(rt)
	if err != nil {
		return outcomeFailed, &RecordIngestionError{RemoteID: rt.ID, Stage: StageMap, Err: err}
	}

	if err := e.ledger.Create(ctx, tx); err != nil {
		if errors.Is(err, models.ErrDuplicateTransaction) {
			return outcomeSkipped, nil
		}
		return outcomeFailed, &RecordIngestionError{RemoteID: rt.ID, Stage: StagePersist, Err: err}
	}
	return outcomeCreated, nil
}

func (e *Engine) stopRequested(ctx context.Context, setting string, runID uuid.UUID) (bool, error) {
	stop, err := e.settings.StopRequested(ctx, setting, runID)
	if err != nil {
		return false, fmt.Errorf("failed to read stop request: %w", err)
	}
	return stop, nil
}

// reportProgress persists and publishes the counters. Neither failure aborts
// the run.
func (e *Engine) reportProgress(ctx context.Context, setting string, runID uuid.UUID, state models.RunState) {
	if err := e.settings.SaveProgress(ctx, setting, runID, state); err != nil {
		e.logger.Warn("failed to save sync progress", "setting", setting, "error", err)
	}
	if err := e.publisher.PublishProgress(ctx, e.event(setting, state)); err != nil {
		e.logger.Warn("failed to publish sync progress", "setting", setting, "error", err)
	}
}

func (e *Engine) event(setting string, state models.RunState) models.ProgressEvent {
	return models.ProgressEvent{
		OccurredAt:      e.now().UTC(),
		Setting:         setting,
		Status:          state.Status,
		ProgressPercent: state.Progress,
		Processed:       state.ProcessedRecords,
		Total:           state.TotalRecords,
		Created:         state.CreatedRecords,
		Errors:          state.ErrorRecords,
	}
}

func (e *Engine) record(ctx context.Context, status models.LogStatus, message string) {
	if e.audit == nil {
		return
	}
	entry := &models.IntegrationLog{
		ID:        uuid.New(),
		CreatedAt: e.now().UTC(),
		Status:    status,
		Message:   message,
	}
	if err := e.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		e.logger.Warn("failed to record integration log", "error", err)
	}
}
