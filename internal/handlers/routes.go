package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/benx421/bank-sync/internal/api"
	"github.com/benx421/bank-sync/internal/middleware"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	handler *Handler,
	idempotency middleware.IdempotencyStore,
	logger *slog.Logger,
) (http.Handler, error) {
	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)

	mux.HandleFunc("GET /health", handler.GetHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/sync/status", handler.GetSyncStatus)
	mux.HandleFunc("POST /api/v1/sync", handler.StartSync)
	mux.HandleFunc("POST /api/v1/sync/restart", handler.RestartSync)
	mux.HandleFunc("POST /api/v1/sync/stop", handler.StopSync)
	mux.HandleFunc("POST /api/v1/auth/test", handler.TestAuthentication)
	mux.HandleFunc("GET /api/v1/logs", handler.ListLogs)
	mux.HandleFunc("DELETE /api/v1/logs", handler.ClearLogs)

	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := api.RequestValidator(doc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create request validator: %w", err)
	}

	var finalHandler http.Handler = mux

	finalHandler = validator(finalHandler)
	finalHandler = middleware.Idempotency(idempotency, logger)(finalHandler)
	finalHandler = middleware.Instrument(logger)(finalHandler)

	return finalHandler, nil
}
