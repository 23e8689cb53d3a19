package service

import (
	"errors"
	"fmt"
)

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeSettingsNotFound    = "settings_not_found"
	ErrCodeIntegrationDisabled = "integration_disabled"
	ErrCodeInvalidWindow       = "invalid_window"
	ErrCodeSyncInProgress      = "sync_in_progress"
	ErrCodeQueueFull           = "queue_full"
	ErrCodeAuthFailed          = "auth_failed"
	ErrCodeInternalError       = "internal_error"
)

var (
	// ErrConcurrencyConflict means another run holds the guard. Callers treat
	// it as a skip, never as a failure.
	ErrConcurrencyConflict = errors.New("sync already in progress")

	// ErrQueueFull is returned by Enqueue when the worker backlog is full.
	ErrQueueFull = errors.New("sync queue is full")

	// ErrMissingRemoteID marks a remote record without a provider id.
	ErrMissingRemoteID = errors.New("remote transaction has no id")
)

// Ingestion stages a RecordIngestionError can come from.
const (
	StageDedup   = "dedup"
	StageMap     = "map"
	StagePersist = "persist"
)

// RecordIngestionError is a failure confined to one remote record. The run
// counts it and moves on to the next record.
type RecordIngestionError struct {
	Err      error
	RemoteID string
	Stage    string
}

func (e *RecordIngestionError) Error() string {
	return fmt.Sprintf("record %q failed at %s: %v", e.RemoteID, e.Stage, e.Err)
}

func (e *RecordIngestionError) Unwrap() error {
	return e.Err
}
