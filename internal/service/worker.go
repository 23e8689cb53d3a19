package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/metrics"
	"github.com/benx421/bank-sync/internal/models"
)

const (
	defaultQueueSize  = 16
	defaultRunTimeout = time.Hour
)

// Job is one queued sync run. The setting's guard is held under RunID from
// enqueue until the worker releases it.
type Job struct {
	EnqueuedAt time.Time
	Setting    string
	Source     string
	Window     models.SyncWindow
	RunID      uuid.UUID
}

// Worker executes queued sync jobs one at a time off the trigger path. It is
// a suture service.
type Worker struct {
	runner     Runner
	guard      *RunGuard
	jobs       chan Job
	logger     *slog.Logger
	runTimeout time.Duration
}

// NewWorker creates a Worker with a buffered queue. Each run is bounded by
// runTimeout.
func NewWorker(runner Runner, guard *RunGuard, queueSize int, runTimeout time.Duration, logger *slog.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}
	return &Worker{
		runner:     runner,
		guard:      guard,
		jobs:       make(chan Job, queueSize),
		logger:     logger.With("component", "sync-worker"),
		runTimeout: runTimeout,
	}
}

// Enqueue adds a job without blocking.
func (w *Worker) Enqueue(job Job) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}
	select {
	case w.jobs <- job:
		metrics.SyncQueueDepth.Set(float64(len(w.jobs)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Serve implements suture.Service. On shutdown, jobs still queued are
// released as Failed so no setting stays In Progress.
func (w *Worker) Serve(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			w.drain(ctx)
			return err
		}
		select {
		case <-ctx.Done():
			w.drain(ctx)
			return ctx.Err()
		case job := <-w.jobs:
			metrics.SyncQueueDepth.Set(float64(len(w.jobs)))
			w.process(ctx, job)
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (w *Worker) String() string {
	return "sync-worker"
}

func (w *Worker) process(ctx context.Context, job Job) {
	runCtx, cancel := context.WithTimeout(ctx, w.runTimeout)
	defer cancel()

	w.logger.Info("running sync job",
		"setting", job.Setting,
		"run_id", job.RunID,
		"source", job.Source,
		"window", job.Window.String(),
		"queued_for", time.Since(job.EnqueuedAt),
	)
	state := w.runner.Execute(runCtx, job.Setting, job.RunID, job.Window)
	w.logger.Info("sync job finished", "setting", job.Setting, "status", state.Status)
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case job := <-w.jobs:
			w.logger.Warn("abandoning queued sync job on shutdown", "setting", job.Setting, "source", job.Source)
			if _, err := w.guard.Release(ctx, job.Setting, job.RunID, models.RunState{Status: models.RunStatusFailed}); err != nil {
				w.logger.Error("failed to release abandoned job", "setting", job.Setting, "error", err)
			}
		default:
			metrics.SyncQueueDepth.Set(0)
			return
		}
	}
}
