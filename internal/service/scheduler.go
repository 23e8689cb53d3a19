package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/bank-sync/internal/models"
)

const defaultCheckInterval = time.Minute

// WindowFor computes the sync window a cadence covers when it fires at now.
// Hourly spans the calendar dates of the last two hours; the others reach
// back one, seven or thirty days. All windows end today.
func WindowFor(cadence models.Cadence, now time.Time) (models.SyncWindow, error) {
	var from time.Time
	switch cadence {
	case models.CadenceHourly:
		from = now.Add(-2 * time.Hour)
	case models.CadenceDaily:
		from = now.AddDate(0, 0, -1)
	case models.CadenceWeekly:
		from = now.AddDate(0, 0, -7)
	case models.CadenceMonthly:
		from = now.AddDate(0, 0, -30)
	default:
		return models.SyncWindow{}, fmt.Errorf("unknown schedule type: %s", cadence)
	}
	return models.NewSyncWindow(from, now)
}

// periodKey identifies the cadence period containing t. A cadence is due when
// its key changes.
func periodKey(cadence models.Cadence, t time.Time) string {
	switch cadence {
	case models.CadenceHourly:
		return t.Format("2006-01-02T15")
	case models.CadenceDaily:
		return t.Format(time.DateOnly)
	case models.CadenceWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case models.CadenceMonthly:
		return t.Format("2006-01")
	}
	return ""
}

// ScheduledRunner starts the run for a due cadence.
type ScheduledRunner interface {
	RunScheduled(ctx context.Context, cadence models.Cadence) (*StartResult, error)
}

var _ ScheduledRunner = (*SyncService)(nil)

// Scheduler fires each cadence on its period boundary: the top of the hour,
// midnight, Monday and the first of the month. It is a suture service.
type Scheduler struct {
	runner   ScheduledRunner
	logger   *slog.Logger
	now      func() time.Time
	last     map[models.Cadence]string
	interval time.Duration
}

// NewScheduler creates a Scheduler checking for due cadences every interval.
func NewScheduler(runner ScheduledRunner, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &Scheduler{
		runner:   runner,
		logger:   logger.With("component", "scheduler"),
		now:      time.Now,
		last:     make(map[models.Cadence]string, len(models.Cadences)),
		interval: interval,
	}
}

// Serve implements suture.Service. The periods already seen survive a
// restart, so a boundary crossed while the service was down fires on the
// first tick after it.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.mark(s.now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx, s.now())
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (s *Scheduler) String() string {
	return "scheduler"
}

// mark records the period containing now for every cadence not seen yet.
func (s *Scheduler) mark(now time.Time) {
	for _, c := range models.Cadences {
		if _, seen := s.last[c]; !seen {
			s.last[c] = periodKey(c, now)
		}
	}
}

// tick runs every cadence whose period rolled over since the previous tick.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	for _, c := range models.Cadences {
		key := periodKey(c, now)
		if s.last[c] == key {
			continue
		}
		s.last[c] = key

		result, err := s.runner.RunScheduled(ctx, c)
		if err != nil {
			s.logger.Error("scheduled sync failed", "cadence", c, "error", err)
			continue
		}
		if result.Started {
			s.logger.Info("scheduled sync queued", "cadence", c, "window", result.Window.String())
		}
	}
}
