package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/db"
	"github.com/benx421/bank-sync/internal/models"
)

// DefaultLogListLimit caps List when no positive limit is given.
const DefaultLogListLimit = 100

// IntegrationLogRepository stores the audit trail of remote calls and run messages.
type IntegrationLogRepository interface {
	Record(ctx context.Context, entry *models.IntegrationLog) error
	List(ctx context.Context, limit int) ([]models.IntegrationLog, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// integrationLogRepository implements IntegrationLogRepository
type integrationLogRepository struct {
	db db.Querier
}

// NewIntegrationLogRepository creates a new IntegrationLogRepository
func NewIntegrationLogRepository(q db.Querier) IntegrationLogRepository {
	return &integrationLogRepository{db: q}
}

// Record inserts one log entry. Header values are stored as given; callers mask them.
func (r *integrationLogRepository) Record(ctx context.Context, entry *models.IntegrationLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	headers := entry.RequestHeaders
	if headers == nil {
		headers = map[string]string{}
	}
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		return fmt.Errorf("failed to encode request headers: %w", err)
	}

	query := `
		INSERT INTO integration_logs (
			id, status, status_code, method, url, request_headers,
			request_data, response_data, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Status,
		entry.StatusCode,
		entry.Method,
		entry.URL,
		string(headersJSON),
		entry.RequestData,
		entry.ResponseData,
		entry.Message,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record integration log: %w", err)
	}
	return nil
}

// List returns the newest entries first.
func (r *integrationLogRepository) List(ctx context.Context, limit int) ([]models.IntegrationLog, error) {
	if limit <= 0 {
		limit = DefaultLogListLimit
	}

	query := `
		SELECT id, status, status_code, method, url, request_headers,
		       request_data, response_data, message, created_at
		FROM integration_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list integration logs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	entries := make([]models.IntegrationLog, 0, limit)
	for rows.Next() {
		var entry models.IntegrationLog
		var headersJSON []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.Status,
			&entry.StatusCode,
			&entry.Method,
			&entry.URL,
			&headersJSON,
			&entry.RequestData,
			&entry.ResponseData,
			&entry.Message,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan integration log: %w", err)
		}
		if len(headersJSON) > 0 {
			if err := json.Unmarshal(headersJSON, &entry.RequestHeaders); err != nil {
				return nil, fmt.Errorf("failed to decode request headers: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate integration logs: %w", err)
	}

	return entries, nil
}

// DeleteAll removes every entry and returns how many were deleted.
func (r *integrationLogRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM integration_logs`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear integration logs: %w", err)
	}
	return result.RowsAffected()
}

// DeleteOlderThan removes entries created before the cutoff.
func (r *integrationLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM integration_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune integration logs: %w", err)
	}
	return result.RowsAffected()
}
