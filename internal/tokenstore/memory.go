package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/benx421/bank-sync/internal/models"
)

type memoryEntry struct {
	storedUntil time.Time
	token       models.Token
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	now     func() time.Time
	entries map[string]memoryEntry
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// WithClock replaces the time source, for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (models.Token, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !s.now().Before(entry.storedUntil) {
		return models.Token{}, false, nil
	}
	return entry.token, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, tok models.Token, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{token: tok, storedUntil: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
