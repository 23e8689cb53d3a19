package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/benx421/bank-sync/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustWindow(t *testing.T, from, to string) models.SyncWindow {
	t.Helper()
	f, err := time.Parse(time.DateOnly, from)
	require.NoError(t, err)
	tt, err := time.Parse(time.DateOnly, to)
	require.NoError(t, err)
	w, err := models.NewSyncWindow(f, tt)
	require.NoError(t, err)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type fakeProgress map[string]models.ProgressEvent

func (f fakeProgress) Latest(setting string) (models.ProgressEvent, bool) {
	e, ok := f[setting]
	return e, ok
}
