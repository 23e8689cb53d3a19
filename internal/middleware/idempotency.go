// Package middleware provides HTTP middleware for the control API and the
// mock payments provider.
package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/benx421/bank-sync/internal/models"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "X-Idempotent-Replayed"
	maxIdempotencyKeyLen = 255
)

// idempotentPaths are the mutating control endpoints whose first successful
// response is replayed for a repeated key.
var idempotentPaths = map[string]struct{}{
	"/api/v1/sync":         {},
	"/api/v1/sync/restart": {},
	"/api/v1/sync/stop":    {},
}

// IdempotencyStore is the subset of the idempotency repository the
// middleware needs.
type IdempotencyStore interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

type responseCapture struct {
	http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // Default if WriteHeader not called
	}
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.statusCode = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST to an idempotent path
// repeats an Idempotency-Key. Only 2xx responses are stored, so a failed
// start can be retried with the same key. Store failures fail open.
func Idempotency(store IdempotencyStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestPath := normalizeRequestPath(r.URL.Path)
			if !requiresIdempotency(r.Method, requestPath) {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
			if key == "" || len(key) > maxIdempotencyKeyLen {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cached, err := store.Get(ctx, key, requestPath)
			if err != nil {
				logger.Error("failed to check idempotency cache", "error", err, "path", requestPath)
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				logger.Debug("replaying idempotent response",
					"key", key,
					"path", requestPath,
					"status", cached.ResponseStatus,
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(replayedHeader, "true")
				w.WriteHeader(cached.ResponseStatus)
				//nolint:errcheck // Best effort response writing
				w.Write([]byte(cached.ResponseBody))
				return
			}

			capture := newResponseCapture(w)
			next.ServeHTTP(capture, r)

			if !shouldCacheResponse(capture.statusCode) {
				return
			}

			entry := &models.IdempotencyKey{
				Key:            key,
				RequestPath:    requestPath,
				RequestMethod:  r.Method,
				ResponseStatus: capture.statusCode,
				ResponseBody:   capture.body.String(),
				CreatedAt:      time.Now(),
			}
			// The client may hang up once the response is written.
			if err := store.Store(context.WithoutCancel(ctx), entry); err != nil {
				logger.Error("failed to store idempotency key", "error", err, "key", key)
			}
		})
	}
}

func requiresIdempotency(method, path string) bool {
	if method != http.MethodPost {
		return false
	}
	_, ok := idempotentPaths[path]
	return ok
}

func normalizeRequestPath(urlPath string) string {
	if urlPath == "/" {
		return urlPath
	}
	return strings.TrimSuffix(urlPath, "/")
}

func shouldCacheResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
