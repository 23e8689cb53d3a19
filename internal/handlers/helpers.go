package handlers

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/benx421/bank-sync/internal/api"
	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/service"
)

func mapServiceErrorToCode(code string) api.ErrorCode {
	switch code {
	case service.ErrCodeInvalidWindow:
		return api.ErrorCodeInvalidWindow
	case service.ErrCodeSettingsNotFound:
		return api.ErrorCodeSettingsNotFound
	case service.ErrCodeIntegrationDisabled:
		return api.ErrorCodeIntegrationDisabled
	case service.ErrCodeSyncInProgress:
		return api.ErrorCodeSyncInProgress
	case service.ErrCodeQueueFull:
		return api.ErrorCodeQueueFull
	case service.ErrCodeAuthFailed:
		return api.ErrorCodeAuthFailed
	default:
		return api.ErrorCodeInternalError
	}
}

func statusForCode(code api.ErrorCode) int {
	switch code {
	case api.ErrorCodeInvalidRequest, api.ErrorCodeInvalidWindow:
		return http.StatusBadRequest
	case api.ErrorCodeSettingsNotFound:
		return http.StatusNotFound
	case api.ErrorCodeIntegrationDisabled, api.ErrorCodeSyncInProgress:
		return http.StatusConflict
	case api.ErrorCodeQueueFull:
		return http.StatusServiceUnavailable
	case api.ErrorCodeAuthFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// writeServiceError maps err to an ErrorResponse. Internal failures are
// logged and answered with a generic message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := extractServiceError(err)

	code := api.ErrorCodeInternalError
	if svcErr != nil {
		code = mapServiceErrorToCode(svcErr.Code)
	}

	if code == api.ErrorCodeInternalError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		api.WriteError(w, http.StatusInternalServerError, code, "an unexpected error occurred")
		return
	}

	api.WriteError(w, statusForCode(code), code, svcErr.Message)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func toStartResponse(result *service.StartResult) api.SyncStartResponse {
	return api.SyncStartResponse{
		Started:  result.Started,
		Status:   string(result.Status),
		FromDate: result.Window.FromString(),
		ToDate:   result.Window.ToString(),
	}
}

func toProgressEvent(e models.ProgressEvent) *api.ProgressEvent {
	return &api.ProgressEvent{
		OccurredAt:      e.OccurredAt,
		Setting:         e.Setting,
		Status:          string(e.Status),
		Message:         e.Message,
		ProgressPercent: e.ProgressPercent,
		Processed:       e.Processed,
		Total:           e.Total,
		Created:         e.Created,
		Errors:          e.Errors,
	}
}

func toIntegrationLog(l models.IntegrationLog) api.IntegrationLog {
	return api.IntegrationLog{
		ID:             l.ID,
		CreatedAt:      l.CreatedAt,
		Status:         string(l.Status),
		StatusCode:     l.StatusCode,
		Method:         l.Method,
		URL:            l.URL,
		RequestHeaders: l.RequestHeaders,
		RequestData:    l.RequestData,
		ResponseData:   l.ResponseData,
		Message:        l.Message,
	}
}
