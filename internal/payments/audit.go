package payments

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/models"
)

// maxLoggedBody caps how much of a request or response body is kept in the log.
const maxLoggedBody = 64 * 1024

// Recorder persists integration log entries.
type Recorder interface {
	Record(ctx context.Context, entry *models.IntegrationLog) error
}

// RecordingTransport writes one IntegrationLog per round trip. Recording
// failures are logged and never fail the request.
type RecordingTransport struct {
	Base     http.RoundTripper
	Recorder Recorder
	Redactor *Redactor
	Logger   *slog.Logger
}

func (t *RecordingTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RecordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Recorder == nil {
		return t.base().RoundTrip(req)
	}

	entry := &models.IntegrationLog{
		ID:             uuid.New(),
		CreatedAt:      time.Now().UTC(),
		Method:         req.Method,
		URL:            t.Redactor.Redact(req.URL.String()),
		RequestHeaders: MaskHeaders(req.Header),
		RequestData:    clip(t.Redactor.Redact(requestData(req)), maxLoggedBody),
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		entry.Status = models.LogStatusError
		entry.Message = t.Redactor.Redact(err.Error())
		t.record(req.Context(), entry)
		return nil, err
	}

	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close() //nolint:errcheck // body fully read
	resp.Body = io.NopCloser(bytes.NewReader(data))

	entry.StatusCode = resp.StatusCode
	entry.Status = models.StatusFromCode(resp.StatusCode)
	entry.ResponseData = clip(t.Redactor.Redact(string(data)), maxLoggedBody)
	if readErr != nil {
		entry.Message = t.Redactor.Redact(readErr.Error())
	}
	t.record(req.Context(), entry)

	if readErr != nil {
		return nil, readErr
	}
	return resp, nil
}

func (t *RecordingTransport) record(ctx context.Context, entry *models.IntegrationLog) {
	if err := t.Recorder.Record(context.WithoutCancel(ctx), entry); err != nil && t.Logger != nil {
		t.Logger.Warn("failed to record integration log", "url", entry.URL, "error", err)
	}
}

func requestData(req *http.Request) string {
	if req.URL.RawQuery != "" {
		return req.URL.RawQuery
	}
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer body.Close() //nolint:errcheck // read-only copy
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return ""
	}
	return string(data)
}

// clip makes s storable as TEXT and at most n bytes long: invalid UTF-8 is
// replaced, NUL bytes are dropped and the cut never splits a rune. Redact
// before clipping so a secret is never cut in half.
func clip(s string, n int) string {
	s = strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
