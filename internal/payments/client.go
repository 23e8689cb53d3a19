package payments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/benx421/bank-sync/internal/metrics"
	"github.com/benx421/bank-sync/internal/models"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000

	transactionsPath = "/financial_transactions"
)

// ListParams filters one page of the financial transaction listing.
// Zero-valued fields are not sent. PageNum is zero-based.
type ListParams struct {
	Window   models.SyncWindow
	BatchID  string
	Currency string
	SourceID string
	Status   models.RemoteStatus
	PageNum  int
	PageSize int
}

// Query encodes the params as provider query arguments.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.BatchID != "" {
		q.Set("batch_id", p.BatchID)
	}
	if p.Currency != "" {
		q.Set("currency", p.Currency)
	}
	if !p.Window.From.IsZero() {
		q.Set("from_created_at", p.Window.FromString())
	}
	if !p.Window.To.IsZero() {
		q.Set("to_created_at", p.Window.ToString())
	}
	q.Set("page_num", strconv.Itoa(max(p.PageNum, 0)))
	q.Set("page_size", strconv.Itoa(ClampPageSize(p.PageSize)))
	if p.SourceID != "" {
		q.Set("source_id", p.SourceID)
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	return q
}

// ClampPageSize applies the default for non-positive sizes and caps at MaxPageSize.
func ClampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	return min(n, MaxPageSize)
}

// ClientConfig tunes a TransactionClient. Zero values take the defaults.
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	ClientID          string
	Timeout           time.Duration
	RetryBaseDelay    time.Duration
	MaxRetryDelay     time.Duration
	BreakerTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	BreakerFailures   uint32
}

// BearerTokens supplies bearer tokens for requests and accepts a signal that
// the current one was rejected.
type BearerTokens interface {
	TokenSource(ctx context.Context) oauth2.TokenSource
	Invalidate(ctx context.Context) error
}

var _ BearerTokens = (*TokenCache)(nil)

// TransactionClient lists financial transactions from the payments API.
type TransactionClient struct {
	tokens         BearerTokens
	base           http.RoundTripper
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[*rawResponse]
	redactor       *Redactor
	logger         *slog.Logger
	baseURL        string
	timeout        time.Duration
	retryBaseDelay time.Duration
	maxRetryDelay  time.Duration
	maxRetries     int
}

type rawResponse struct {
	body   []byte
	status int
}

// NewTransactionClient creates a client. base is the transport the bearer
// token is attached on top of; nil uses http.DefaultTransport.
func NewTransactionClient(cfg ClientConfig, tokens BearerTokens, base http.RoundTripper, logger *slog.Logger) *TransactionClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.MaxRetryDelay < cfg.RetryBaseDelay {
		cfg.MaxRetryDelay = max(30*time.Second, cfg.RetryBaseDelay)
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}
	if base == nil {
		base = http.DefaultTransport
	}

	return &TransactionClient{
		tokens:         tokens,
		base:           base,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:        newBreaker("payments-api", cfg.BreakerFailures, cfg.BreakerTimeout, logger),
		redactor:       NewRedactor(cfg.APIKey, cfg.ClientID),
		logger:         logger,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		timeout:        cfg.Timeout,
		retryBaseDelay: cfg.RetryBaseDelay,
		maxRetryDelay:  cfg.MaxRetryDelay,
		maxRetries:     cfg.MaxRetries,
	}
}

// ListPage fetches one page of transactions.
func (c *TransactionClient) ListPage(ctx context.Context, params ListParams) (*models.TransactionPage, error) {
	reqURL := c.baseURL + transactionsPath + "?" + params.Query().Encode()

	raw, err := c.getWithRetry(ctx, "list_transactions", reqURL)
	if err != nil {
		return nil, err
	}

	var page models.TransactionPage
	if err := json.Unmarshal(raw.body, &page); err != nil {
		return nil, c.nonJSON(raw, reqURL)
	}
	return &page, nil
}

// GetByID fetches a single transaction.
func (c *TransactionClient) GetByID(ctx context.Context, id string) (*models.RemoteTransaction, error) {
	if id == "" {
		return nil, errors.New("payments: transaction id is required")
	}
	reqURL := c.baseURL + transactionsPath + "/" + url.PathEscape(id)

	raw, err := c.getWithRetry(ctx, "get_transaction", reqURL)
	if err != nil {
		return nil, err
	}

	var tx models.RemoteTransaction
	if err := json.Unmarshal(raw.body, &tx); err != nil {
		return nil, c.nonJSON(raw, reqURL)
	}
	return &tx, nil
}

func (c *TransactionClient) nonJSON(raw *rawResponse, reqURL string) error {
	return &RemoteAPIError{
		Status: raw.status,
		Body:   clip(c.redactor.Redact(string(raw.body)), maxLoggedBody),
		URL:    reqURL,
		Err:    ErrNonJSONResponse,
	}
}

// getWithRetry retries transient failures with exponential backoff
// (base, 2*base, 4*base, ...), honouring Retry-After when present. Every
// delay is capped at the configured maximum.
func (c *TransactionClient) getWithRetry(ctx context.Context, endpoint, reqURL string) (*rawResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("payments: rate limiter: %w", err)
		}

		raw, err := c.breaker.Execute(func() (*rawResponse, error) {
			return c.do(ctx, endpoint, reqURL)
		})
		if err == nil {
			return raw, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("payments: circuit breaker rejected request: %w", err)
		}

		lastErr = err
		if attempt == c.maxRetries || !c.retryable(ctx, err) {
			break
		}

		delay := c.retryDelay(attempt, err)

		metrics.PaymentsRetries.WithLabelValues(endpoint).Inc()
		c.logger.Warn("payments request failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func (c *TransactionClient) retryDelay(attempt int, err error) time.Duration {
	delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		delay = apiErr.RetryAfter
	}
	return min(delay, c.maxRetryDelay)
}

func (c *TransactionClient) do(ctx context.Context, endpoint, reqURL string) (*rawResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("payments: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: c.tokens.TokenSource(callCtx),
			Base:   c.base,
		},
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	metrics.PaymentsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		metrics.PaymentsRequests.WithLabelValues(endpoint, "transport").Inc()
		return nil, fmt.Errorf("payments: request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	metrics.PaymentsRequests.WithLabelValues(endpoint, metrics.OutcomeForStatus(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("payments: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.tokens.Invalidate(ctx); err != nil {
				c.logger.Warn("failed to invalidate rejected token", "error", err)
			}
		}
		return nil, &RemoteAPIError{
			Status:     resp.StatusCode,
			Body:       clip(c.redactor.Redact(string(body)), maxLoggedBody),
			URL:        reqURL,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return &rawResponse{body: body, status: resp.StatusCode}, nil
}

// retryable reports whether err may clear up on a later attempt. Parent
// context cancellation and credential problems never retry.
func (c *TransactionClient) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if IsAuthError(err) {
		return false
	}
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	// transport failure or per-call timeout
	return true
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
