package service

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes rows created before a cutoff.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type pruneTarget struct {
	pruner    Pruner
	name      string
	retention time.Duration
}

// Janitor periodically prunes expired integration logs and idempotency keys.
// It is a suture service.
type Janitor struct {
	logger   *slog.Logger
	now      func() time.Time
	targets  []pruneTarget
	interval time.Duration
}

// NewJanitor creates a Janitor that prunes every interval.
func NewJanitor(interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{
		logger:   logger.With("component", "janitor"),
		now:      time.Now,
		interval: interval,
	}
}

// Add registers a table to prune. Non-positive retention keeps rows forever.
func (j *Janitor) Add(name string, p Pruner, retention time.Duration) {
	if retention <= 0 {
		return
	}
	j.targets = append(j.targets, pruneTarget{name: name, pruner: p, retention: retention})
}

// Serve implements suture.Service. It prunes once immediately.
func (j *Janitor) Serve(ctx context.Context) error {
	j.prune(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.prune(ctx)
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (j *Janitor) String() string {
	return "janitor"
}

func (j *Janitor) prune(ctx context.Context) {
	now := j.now().UTC()
	for _, t := range j.targets {
		deleted, err := t.pruner.DeleteOlderThan(ctx, now.Add(-t.retention))
		if err != nil {
			j.logger.Warn("prune failed", "target", t.name, "error", err)
			continue
		}
		if deleted > 0 {
			j.logger.Info("pruned expired rows", "target", t.name, "deleted", deleted)
		}
	}
}
