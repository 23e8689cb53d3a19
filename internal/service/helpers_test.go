package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/service"
)

const settingName = "default"

var testRunID = uuid.MustParse("5f0c6a52-8d3e-4b8e-9a51-0d2f3c4b5a69")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWindow() models.SyncWindow {
	w, err := models.NewSyncWindow(
		time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		panic(err)
	}
	return w
}

func remote(id string) models.RemoteTransaction {
	return models.RemoteTransaction{
		ID:              id,
		Amount:          json.Number("10.00"),
		Currency:        "USD",
		Status:          models.RemoteStatusSettled,
		CreatedAt:       "2025-10-07T10:00:00+0000",
		FundingSourceID: "fs_1",
	}
}

func remotes(prefix string, n int) []models.RemoteTransaction {
	items := make([]models.RemoteTransaction, n)
	for i := range items {
		items[i] = remote(fmt.Sprintf("%s%d", prefix, i))
	}
	return items
}

// memoryLedger is an in-memory LedgerRepository keyed by remote id.
type memoryLedger struct {
	rows map[string]*models.LedgerTransaction
	mu   sync.Mutex
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{rows: make(map[string]*models.LedgerTransaction)}
}

func (l *memoryLedger) ExistsByRemoteID(_ context.Context, remoteID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.rows[remoteID]
	return ok, nil
}

func (l *memoryLedger) Create(_ context.Context, tx *models.LedgerTransaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.rows[tx.RemoteSourceID]; ok {
		return models.ErrDuplicateTransaction
	}
	l.rows[tx.RemoteSourceID] = tx
	return nil
}

func (l *memoryLedger) FindByRemoteID(_ context.Context, remoteID string) (*models.LedgerTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, ok := l.rows[remoteID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return tx, nil
}

func (l *memoryLedger) CountByDateRange(_ context.Context, from, to time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, tx := range l.rows {
		if !tx.Date.Before(from) && !tx.Date.After(to) {
			n++
		}
	}
	return n, nil
}

func (l *memoryLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

// eventLog captures published progress and completion events.
type eventLog struct {
	progress []models.ProgressEvent
	complete []models.ProgressEvent
	mu       sync.Mutex
}

func (e *eventLog) PublishProgress(_ context.Context, event models.ProgressEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress = append(e.progress, event)
	return nil
}

func (e *eventLog) PublishComplete(_ context.Context, event models.ProgressEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.complete = append(e.complete, event)
	return nil
}

// memorySettings is an in-memory SettingsRepository for a single setting
// with the same conditional-write rules as the SQL store.
type memorySettings struct {
	settings models.Settings
	runID    uuid.UUID
	mu       sync.Mutex
}

func newMemorySettings(name string, enabled bool) *memorySettings {
	return &memorySettings{settings: models.Settings{
		Name:     name,
		Enabled:  enabled,
		Schedule: models.CadenceDaily,
		RunState: models.RunState{Status: models.RunStatusNotStarted},
	}}
}

func (m *memorySettings) Ensure(_ context.Context, _ string, enabled bool, schedule models.Cadence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Enabled, m.settings.Schedule = enabled, schedule
	return nil
}

func (m *memorySettings) Get(_ context.Context, _ string) (*models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings
	return &s, nil
}

func (m *memorySettings) GetStatus(_ context.Context, _ string) (models.RunStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Status, nil
}

func (m *memorySettings) TryStartRun(_ context.Context, _ string, runID uuid.UUID, window models.SyncWindow, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings.Status == models.RunStatusInProgress {
		return false, nil
	}
	m.runID = runID
	m.settings.StopRequested = false
	m.settings.FromDate, m.settings.ToDate = &window.From, &window.To
	m.settings.RunState = models.RunState{
		Status:          models.RunStatusInProgress,
		LastSyncAt:      &at,
		LastCompletedAt: m.settings.LastCompletedAt,
	}
	return true, nil
}

func (m *memorySettings) owns(runID uuid.UUID) bool {
	return m.settings.Status == models.RunStatusInProgress && m.runID == runID
}

func (m *memorySettings) StopRequested(_ context.Context, _ string, runID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.StopRequested || !m.owns(runID), nil
}

func (m *memorySettings) SaveProgress(_ context.Context, _ string, runID uuid.UUID, state models.RunState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.owns(runID) {
		return models.ErrRunSuperseded
	}
	state.Status = models.RunStatusInProgress
	state.LastSyncAt, state.LastCompletedAt = m.settings.LastSyncAt, m.settings.LastCompletedAt
	m.settings.RunState = state
	return nil
}

func (m *memorySettings) FinishRun(_ context.Context, _ string, runID uuid.UUID, state models.RunState) (models.RunStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.owns(runID) {
		return "", models.ErrRunSuperseded
	}
	if m.settings.StopRequested {
		state.Status = models.RunStatusStopped
		state.LastCompletedAt = m.settings.LastCompletedAt
	} else if state.LastCompletedAt == nil {
		state.LastCompletedAt = m.settings.LastCompletedAt
	}
	state.LastSyncAt = m.settings.LastSyncAt
	m.settings.StopRequested = false
	m.settings.RunState = state
	return state.Status, nil
}

func (m *memorySettings) RequestStop(_ context.Context, _ string) (models.RunStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings.Status == models.RunStatusInProgress {
		m.settings.StopRequested = true
	} else {
		m.settings.Status = models.RunStatusStopped
	}
	return m.settings.Status, nil
}

func (m *memorySettings) SetStatus(_ context.Context, _ string, status models.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings.Status != models.RunStatusInProgress {
		m.settings.Status = status
	}
	return nil
}

func (m *memorySettings) ResetRun(_ context.Context, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings.Status == models.RunStatusInProgress {
		return false, nil
	}
	m.settings.StopRequested = false
	m.settings.RunState = models.RunState{
		Status:          models.RunStatusNotStarted,
		LastSyncAt:      m.settings.LastSyncAt,
		LastCompletedAt: m.settings.LastCompletedAt,
	}
	return true, nil
}

func (m *memorySettings) FailStaleRun(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return false, nil
}

// jobRecorder is a JobQueue that keeps every job it accepts.
type jobRecorder struct {
	jobs []service.Job
	mu   sync.Mutex
}

func (q *jobRecorder) Enqueue(job service.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *jobRecorder) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *jobRecorder) job(i int) service.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs[i]
}
