package handlers

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/benx421/bank-sync/internal/api"
)

const defaultLogLimit = 50

// ListLogs handles GET /api/v1/logs
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, "invalid limit parameter")
		return
	}

	n := defaultLogLimit
	if limit != nil {
		n = *limit
	}
	if n <= 0 {
		api.WriteError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, "limit must be positive")
		return
	}

	entries, err := h.logs.List(r.Context(), n)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]api.IntegrationLog, 0, len(entries))
	for _, e := range entries {
		items = append(items, toIntegrationLog(e))
	}
	api.WriteJSON(w, http.StatusOK, api.LogListResponse{Items: items, Count: len(items)})
}

// ClearLogs handles DELETE /api/v1/logs
func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.logs.DeleteAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Info("integration logs cleared", "deleted", deleted)
	api.WriteJSON(w, http.StatusOK, api.ClearLogsResponse{Deleted: deleted})
}
