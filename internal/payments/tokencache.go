package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/benx421/bank-sync/internal/metrics"
	"github.com/benx421/bank-sync/internal/models"
	"github.com/benx421/bank-sync/internal/tokenstore"
)

const (
	// DefaultTokenTTL is how long a token slot lives regardless of the token's expiry.
	DefaultTokenTTL = time.Hour

	// DefaultExpiryBuffer treats a token as stale this long before it expires.
	DefaultExpiryBuffer = 5 * time.Minute
)

// TokenIssuer obtains a fresh token from the remote API.
type TokenIssuer interface {
	Authenticate(ctx context.Context) (*models.AuthResponse, error)
}

var _ TokenIssuer = (*Authenticator)(nil)

// TokenCache serves a bearer token, refreshing it through the issuer when the
// cached one is missing, older than the slot TTL, or within the expiry buffer.
//
// Refresh is not serialized: concurrent callers that all observe a stale slot
// each authenticate, and the last writer wins. Tokens issued by the racing
// calls are all valid, so this is tolerated.
type TokenCache struct {
	issuer TokenIssuer
	store  tokenstore.Store
	now    func() time.Time
	logger *slog.Logger
	key    string
	ttl    time.Duration
	buffer time.Duration
}

// TokenCacheOptions tunes a TokenCache. Zero values take the defaults.
type TokenCacheOptions struct {
	Now          func() time.Time
	Key          string
	TTL          time.Duration
	ExpiryBuffer time.Duration
}

// NewTokenCache creates a cache backed by store.
func NewTokenCache(issuer TokenIssuer, store tokenstore.Store, opts TokenCacheOptions, logger *slog.Logger) *TokenCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTokenTTL
	}
	if opts.ExpiryBuffer <= 0 {
		opts.ExpiryBuffer = DefaultExpiryBuffer
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Key == "" {
		opts.Key = "default"
	}
	return &TokenCache{
		issuer: issuer,
		store:  store,
		now:    opts.Now,
		logger: logger,
		key:    opts.Key,
		ttl:    opts.TTL,
		buffer: opts.ExpiryBuffer,
	}
}

// GetValidToken returns a cached token when usable, otherwise authenticates
// exactly once and caches the result with the fixed slot TTL.
func (c *TokenCache) GetValidToken(ctx context.Context) (models.Token, error) {
	tok, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("token store read failed, refreshing", "error", err)
	} else if found && c.usable(tok) {
		metrics.TokenCacheHits.Inc()
		return tok, nil
	}

	resp, err := c.issuer.Authenticate(ctx)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return models.Token{}, err
	}
	metrics.TokenRefreshes.WithLabelValues("success").Inc()

	tok = models.Token{Value: resp.Token}
	if expiresAt, ok := parseExpiry(resp.ExpiresAt); ok {
		tok.ExpiresAt = expiresAt
	} else {
		c.logger.Warn("token expiry missing or malformed, token will not be reused", "expires_at", resp.ExpiresAt)
	}

	if err := c.store.Set(ctx, c.key, tok, c.ttl); err != nil {
		c.logger.Warn("failed to cache token", "error", err)
	}

	c.logger.Debug("obtained new access token", "expires_at", tok.ExpiresAt)
	return tok, nil
}

// Invalidate drops the cached token so the next call authenticates.
func (c *TokenCache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}
	return nil
}

func (c *TokenCache) usable(tok models.Token) bool {
	if tok.Value == "" || tok.ExpiresAt.IsZero() {
		return false
	}
	return c.now().Before(tok.ExpiresAt.Add(-c.buffer))
}

// TokenSource adapts the cache to oauth2.TokenSource, bound to ctx.
func (c *TokenCache) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &cacheTokenSource{ctx: ctx, cache: c}
}

type cacheTokenSource struct {
	ctx   context.Context
	cache *TokenCache
}

func (s *cacheTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.cache.GetValidToken(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: tok.Value,
		TokenType:   "Bearer",
		Expiry:      tok.ExpiresAt,
	}, nil
}

var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
}

// parseExpiry accepts ISO-8601 timestamps with "Z", "+00:00" or "+0000"
// offsets. Timestamps without an offset are taken as UTC.
func parseExpiry(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
