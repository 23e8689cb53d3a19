package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrorCode is the machine-readable error field of ErrorResponse.
type ErrorCode string

const (
	ErrorCodeInvalidRequest      ErrorCode = "invalid_request"
	ErrorCodeInvalidWindow       ErrorCode = "invalid_window"
	ErrorCodeSettingsNotFound    ErrorCode = "settings_not_found"
	ErrorCodeIntegrationDisabled ErrorCode = "integration_disabled"
	ErrorCodeSyncInProgress      ErrorCode = "sync_in_progress"
	ErrorCodeQueueFull           ErrorCode = "queue_full"
	ErrorCodeAuthFailed          ErrorCode = "auth_failed"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// HealthStatus reports database reachability.
type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Unhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status HealthStatus `json:"status"`
}

type ErrorResponse struct {
	Error   ErrorCode `json:"error"`
	Message string    `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// SyncWindowRequest is the body of start and restart. Dates are YYYY-MM-DD.
type SyncWindowRequest struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

type SyncStartResponse struct {
	Status   string `json:"status"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
	Started  bool   `json:"started"`
}

type ProgressEvent struct {
	OccurredAt      time.Time `json:"occurred_at"`
	Setting         string    `json:"setting"`
	Status          string    `json:"status"`
	Message         string    `json:"message,omitempty"`
	ProgressPercent float64   `json:"progress_percent"`
	Processed       int       `json:"processed"`
	Total           int       `json:"total"`
	Created         int       `json:"created"`
	Errors          int       `json:"errors"`
}

type SyncStatusResponse struct {
	LastSyncAt       *time.Time     `json:"last_sync_at"`
	LastCompletedAt  *time.Time     `json:"last_completed_at"`
	LatestEvent      *ProgressEvent `json:"latest_event,omitempty"`
	Setting          string         `json:"setting"`
	Schedule         string         `json:"schedule"`
	Status           string         `json:"status"`
	Progress         float64        `json:"progress"`
	ProcessedRecords int            `json:"processed_records"`
	TotalRecords     int            `json:"total_records"`
	CreatedRecords   int            `json:"created_records"`
	ErrorRecords     int            `json:"error_records"`
	Enabled          bool           `json:"enabled"`
}

type AuthTestResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type IntegrationLog struct {
	CreatedAt      time.Time         `json:"created_at"`
	RequestHeaders map[string]string `json:"request_headers,omitempty"`
	Status         string            `json:"status"`
	Method         string            `json:"method,omitempty"`
	URL            string            `json:"url,omitempty"`
	RequestData    string            `json:"request_data,omitempty"`
	ResponseData   string            `json:"response_data,omitempty"`
	Message        string            `json:"message,omitempty"`
	StatusCode     int               `json:"status_code,omitempty"`
	ID             uuid.UUID         `json:"id"`
}

type LogListResponse struct {
	Items []IntegrationLog `json:"items"`
	Count int              `json:"count"`
}

type ClearLogsResponse struct {
	Deleted int64 `json:"deleted"`
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Nothing useful to do if write fails
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	WriteJSON(w, status, ErrorResponse{Error: code, Message: message})
}
