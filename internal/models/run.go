package models

import (
	"fmt"
	"time"
)

// RunStatus is the persisted state of a sync run.
type RunStatus string

const (
	RunStatusNotStarted          RunStatus = "Not Started"
	RunStatusInProgress          RunStatus = "In Progress"
	RunStatusCompleted           RunStatus = "Completed"
	RunStatusCompletedWithErrors RunStatus = "Completed with Errors"
	RunStatusFailed              RunStatus = "Failed"
	RunStatusStopped             RunStatus = "Stopped"
)

// Terminal reports whether no run is active in this status.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusCompletedWithErrors, RunStatusFailed, RunStatusStopped:
		return true
	}
	return false
}

// Cadence is a scheduler frequency.
type Cadence string

const (
	CadenceHourly  Cadence = "Hourly"
	CadenceDaily   Cadence = "Daily"
	CadenceWeekly  Cadence = "Weekly"
	CadenceMonthly Cadence = "Monthly"
)

// Cadences lists the supported scheduler frequencies.
var Cadences = []Cadence{CadenceHourly, CadenceDaily, CadenceWeekly, CadenceMonthly}

// RunState is the progress and outcome of the most recent run.
type RunState struct {
	LastSyncAt       *time.Time `db:"last_sync_at"`
	LastCompletedAt  *time.Time `db:"last_completed_at"`
	Status           RunStatus  `db:"status"`
	Progress         float64    `db:"progress"`
	ProcessedRecords int        `db:"processed_records"`
	TotalRecords     int        `db:"total_records"`
	CreatedRecords   int        `db:"created_records"`
	ErrorRecords     int        `db:"error_records"`
}

// Percent returns processed/total*100, or 0 when total is 0.
func Percent(processed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(processed) / float64(total) * 100
}

// SyncWindow is an inclusive range of calendar dates.
type SyncWindow struct {
	From time.Time
	To   time.Time
}

// NewSyncWindow truncates both bounds to UTC calendar dates and checks ordering.
func NewSyncWindow(from, to time.Time) (SyncWindow, error) {
	w := SyncWindow{From: truncateDate(from), To: truncateDate(to)}
	if w.From.After(w.To) {
		return SyncWindow{}, fmt.Errorf("from date %s is after to date %s", w.FromString(), w.ToString())
	}
	return w, nil
}

// FromString formats the lower bound as YYYY-MM-DD.
func (w SyncWindow) FromString() string { return w.From.Format(time.DateOnly) }

// ToString formats the upper bound as YYYY-MM-DD.
func (w SyncWindow) ToString() string { return w.To.Format(time.DateOnly) }

func (w SyncWindow) String() string { return w.FromString() + ".." + w.ToString() }

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Settings is the persisted integration setting a run operates on.
type Settings struct {
	FromDate *time.Time `db:"from_date"`
	ToDate   *time.Time `db:"to_date"`
	Name     string     `db:"name"`
	Schedule Cadence    `db:"sync_schedule"`
	RunState
	Enabled       bool `db:"enabled"`
	StopRequested bool `db:"stop_requested"`
}

// ProgressEvent is published after each page and once when a run ends.
type ProgressEvent struct {
	OccurredAt      time.Time `json:"occurred_at"`
	Setting         string    `json:"setting"`
	Status          RunStatus `json:"status"`
	Message         string    `json:"message,omitempty"`
	ProgressPercent float64   `json:"progress_percent"`
	Processed       int       `json:"processed"`
	Total           int       `json:"total"`
	Created         int       `json:"created"`
	Errors          int       `json:"errors"`
}
