// Package tokenstore holds the single-slot bearer token cache backends.
package tokenstore

import (
	"context"
	"time"

	"github.com/benx421/bank-sync/internal/models"
)

// Store keeps tokens under a key until their TTL elapses.
// Get reports found=false for missing or expired entries.
type Store interface {
	Get(ctx context.Context, key string) (tok models.Token, found bool, err error)
	Set(ctx context.Context, key string, tok models.Token, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BadgerStore)(nil)
)
