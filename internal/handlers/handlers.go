// Package handlers implements the control API of the sync engine.
package handlers

import (
	"context"
	"log/slog"

	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/service"
)

// LogStore is the read and clear side of the integration log.
type LogStore interface {
	List(ctx context.Context, limit int) ([]models.IntegrationLog, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ProgressReader exposes the latest progress event per setting.
type ProgressReader interface {
	Latest(setting string) (models.ProgressEvent, bool)
}

// Handler serves every control endpoint.
type Handler struct {
	sync          service.SyncController
	logs          LogStore
	progress      ProgressReader
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected dependencies. progress may
// be nil, in which case status responses carry no latest event.
func NewHandler(
	sync service.SyncController,
	logs LogStore,
	progress ProgressReader,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sync:          sync,
		logs:          logs,
		progress:      progress,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
