package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetSwagger_ValidDocument(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)

	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "Bank Sync API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/api/v1/sync"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/logs"))
}

func TestGetSwagger_ReturnsFreshCopy(t *testing.T) {
	first, err := GetSwagger()
	require.NoError(t, err)
	first.Servers = nil

	second, err := GetSwagger()
	require.NoError(t, err)
	assert.NotEmpty(t, second.Servers)
}

func TestDocsRoutes(t *testing.T) {
	mux := http.NewServeMux()
	RegisterDocsRoutes(mux)

	t.Run("root redirects to docs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/docs", rec.Header().Get("Location"))
	})

	t.Run("swagger ui", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Bank Sync API")
	})

	t.Run("openapi document as json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "3.0.3", body["openapi"])
	})

	t.Run("openapi document as yaml", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "title: Bank Sync API")
	})
}

func newValidated(t *testing.T, next http.Handler) http.Handler {
	t.Helper()
	doc, err := GetSwagger()
	require.NoError(t, err)
	mw, err := RequestValidator(doc, testLogger())
	require.NoError(t, err)
	return mw(next)
}

func TestRequestValidator(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantInBody string
	}{
		{
			name:       "valid start request",
			method:     http.MethodPost,
			target:     "/api/v1/sync",
			body:       `{"from_date":"2025-10-01","to_date":"2025-10-07"}`,
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "missing to_date",
			method:     http.MethodPost,
			target:     "/api/v1/sync",
			body:       `{"from_date":"2025-10-01"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "to_date",
		},
		{
			name:       "missing body",
			method:     http.MethodPost,
			target:     "/api/v1/sync/restart",
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid_request",
		},
		{
			name:       "limit below minimum",
			method:     http.MethodGet,
			target:     "/api/v1/logs?limit=0",
			wantStatus: http.StatusBadRequest,
			wantInBody: "limit",
		},
		{
			name:       "limit not a number",
			method:     http.MethodGet,
			target:     "/api/v1/logs?limit=abc",
			wantStatus: http.StatusBadRequest,
			wantInBody: "limit",
		},
		{
			name:       "valid limit",
			method:     http.MethodGet,
			target:     "/api/v1/logs?limit=10",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "undocumented path passes through",
			method:     http.MethodGet,
			target:     "/metrics",
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				data, _ := io.ReadAll(r.Body) //nolint:errcheck // test handler
				gotBody = string(data)
				w.WriteHeader(http.StatusTeapot)
			})

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()

			newValidated(t, next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantInBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantInBody)
			}
			if tt.wantStatus == http.StatusTeapot && tt.body != "" {
				assert.Equal(t, tt.body, gotBody, "body must still be readable downstream")
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusConflict, ErrorCodeIntegrationDisabled, "integration is disabled")

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeIntegrationDisabled, resp.Error)
	assert.Equal(t, "integration is disabled", resp.Message)
}
