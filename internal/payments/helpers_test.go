package payments

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/benx421/bank-sync/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticTokens hands out a fixed token, or fails with err.
type staticTokens struct {
	err         error
	token       string
	invalidated atomic.Int32
}

func (s *staticTokens) TokenSource(context.Context) oauth2.TokenSource {
	return tokenSourceFunc(func() (*oauth2.Token, error) {
		if s.err != nil {
			return nil, s.err
		}
		return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
	})
}

func (s *staticTokens) Invalidate(context.Context) error {
	s.invalidated.Add(1)
	return nil
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

type memoryRecorder struct {
	entries []*models.IntegrationLog
	mu      sync.Mutex
}

func (r *memoryRecorder) Record(_ context.Context, entry *models.IntegrationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryRecorder) all() []*models.IntegrationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.IntegrationLog(nil), r.entries...)
}
