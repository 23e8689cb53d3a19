package models

import (
	"time"

	"github.com/google/uuid"
)

// LogStatus classifies an integration log entry.
type LogStatus string

const (
	LogStatusSuccess LogStatus = "Success"
	LogStatusError   LogStatus = "Error"
	LogStatusInfo    LogStatus = "Info"
)

// IntegrationLog is an audit record of one remote call or run-level message.
// RequestHeaders never carries unmasked credential values.
type IntegrationLog struct {
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	RequestHeaders map[string]string `db:"request_headers" json:"request_headers,omitempty"`
	Status         LogStatus         `db:"status" json:"status"`
	Method         string            `db:"method" json:"method,omitempty"`
	URL            string            `db:"url" json:"url,omitempty"`
	RequestData    string            `db:"request_data" json:"request_data,omitempty"`
	ResponseData   string            `db:"response_data" json:"response_data,omitempty"`
	Message        string            `db:"message" json:"message,omitempty"`
	StatusCode     int               `db:"status_code" json:"status_code,omitempty"`
	ID             uuid.UUID         `db:"id" json:"id"`
}

// StatusFromCode returns Success for 2xx codes and Error otherwise.
func StatusFromCode(code int) LogStatus {
	if code >= 200 && code < 300 {
		return LogStatusSuccess
	}
	return LogStatusError
}
