package main

import (
	"context"
	"log/slog"

	"github.com/benx421/bank-sync/internal/service"
)

// startHistorical queues the configured one-time backfill. Failures are
// logged; the server keeps running.
func startHistorical(ctx context.Context, svc *service.SyncService, fromDate, toDate string, logger *slog.Logger) {
	window, err := service.ParseWindow(fromDate, toDate)
	if err != nil {
		logger.Error("invalid historical sync window", "error", err)
		return
	}

	result, err := svc.StartHistorical(ctx, window)
	if err != nil {
		logger.Error("historical sync not started", "window", window.String(), "error", err)
		return
	}
	if result.Started {
		logger.Info("historical sync queued", "window", window.String())
		return
	}
	logger.Info("historical sync skipped", "window", window.String(), "status", result.Status)
}
