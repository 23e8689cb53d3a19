package handlers

import (
	"context"
	"net/http"

	"github.com/benx421/bank-sync/internal/api"
	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/service"
)

// GetSyncStatus handles GET /api/v1/sync/status
func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	settings, err := h.sync.Status(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := api.SyncStatusResponse{
		Setting:          settings.Name,
		Enabled:          settings.Enabled,
		Schedule:         string(settings.Schedule),
		Status:           string(settings.Status),
		ProcessedRecords: settings.ProcessedRecords,
		TotalRecords:     settings.TotalRecords,
		CreatedRecords:   settings.CreatedRecords,
		ErrorRecords:     settings.ErrorRecords,
		Progress:         settings.Progress,
		LastSyncAt:       settings.LastSyncAt,
		LastCompletedAt:  settings.LastCompletedAt,
	}
	if h.progress != nil {
		if event, ok := h.progress.Latest(settings.Name); ok {
			resp.LatestEvent = toProgressEvent(event)
		}
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

// StartSync handles POST /api/v1/sync
func (h *Handler) StartSync(w http.ResponseWriter, r *http.Request) {
	h.startWith(w, r, h.sync.Start)
}

// RestartSync handles POST /api/v1/sync/restart
func (h *Handler) RestartSync(w http.ResponseWriter, r *http.Request) {
	h.startWith(w, r, h.sync.Restart)
}

type startFunc func(ctx context.Context, window models.SyncWindow) (*service.StartResult, error)

// startWith answers 202 when a run was queued and 200 when one was already
// in progress.
func (h *Handler) startWith(w http.ResponseWriter, r *http.Request, start startFunc) {
	var body api.SyncWindowRequest
	if err := decodeBody(r, &body); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, "request body must be a JSON object")
		return
	}

	window, err := service.ParseWindow(body.FromDate, body.ToDate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := start(r.Context(), window)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	status := http.StatusAccepted
	if !result.Started {
		status = http.StatusOK
	}
	api.WriteJSON(w, status, toStartResponse(result))
}

// StopSync handles POST /api/v1/sync/stop
func (h *Handler) StopSync(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Stop(r.Context()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Sync stop requested"})
}

// TestAuthentication handles POST /api/v1/auth/test
func (h *Handler) TestAuthentication(w http.ResponseWriter, r *http.Request) {
	msg, err := h.sync.TestAuthentication(r.Context())
	if err != nil {
		api.WriteJSON(w, http.StatusBadGateway, api.AuthTestResponse{Success: false, Message: msg})
		return
	}
	api.WriteJSON(w, http.StatusOK, api.AuthTestResponse{Success: true, Message: msg})
}
