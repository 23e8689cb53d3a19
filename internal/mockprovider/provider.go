// Package mockprovider is a local stand-in for the payments API. It serves
// login and the paged financial transaction listing with the same wire shape
// as the real provider, behind optional latency and failure injection.
package mockprovider

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/benx421/bank-sync/internal/config"
	"github.com/benx421/bank-sync/internal/middleware"
	"github.com/benx421/bank-sync/internal/models"
)

// expiryLayout matches the offset style of the real provider ("+0000").
const expiryLayout = "2006-01-02T15:04:05-0700"

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Provider holds the fake transaction set and the tokens it has issued.
type Provider struct {
	cfg    *config.MockProviderConfig
	logger *slog.Logger
	now    func() time.Time
	tokens map[string]time.Time
	txns   []models.RemoteTransaction
	mu     sync.RWMutex
}

// New creates an empty provider. Use Add or Generate to load transactions.
func New(cfg *config.MockProviderConfig, logger *slog.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		logger: logger.With("component", "mock-provider"),
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

// Add appends transactions, keeping the set ordered by created_at.
func (p *Provider) Add(txns ...models.RemoteTransaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txns = append(p.txns, txns...)
	sort.SliceStable(p.txns, func(i, j int) bool {
		return p.txns[i].CreatedAt < p.txns[j].CreatedAt
	})
}

// Len returns the number of loaded transactions.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txns)
}

// RevokeTokens forgets every issued token, so the next listing call gets 401.
func (p *Provider) RevokeTokens() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.tokens)
}

// Handler returns the provider routes wrapped in failure injection.
func (p *Provider) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("POST /authentication/login", p.login)
	mux.HandleFunc("GET /financial_transactions", p.listTransactions)

	return middleware.FailureInjection(p.cfg, p.logger)(mux)
}

func (p *Provider) login(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("x-client-id") != p.cfg.ClientID || r.Header.Get("x-api-key") != p.cfg.APIKey {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Code:    "credentials_invalid",
			Message: "Invalid client id or api key",
		})
		return
	}

	token := "mock_" + uuid.NewString()
	expiresAt := p.now().UTC().Add(p.cfg.TokenTTL)

	p.mu.Lock()
	p.tokens[token] = expiresAt
	p.mu.Unlock()

	writeJSON(w, http.StatusCreated, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(expiryLayout),
	})
}

func (p *Provider) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	expiresAt, found := p.tokens[token]
	if !found {
		return false
	}
	if !p.now().Before(expiresAt) {
		delete(p.tokens, token)
		return false
	}
	return true
}

// listFilter is the parsed query of a listing request.
type listFilter struct {
	from     string
	to       string
	currency string
	status   string
	batchID  string
	sourceID string
	pageNum  int
	pageSize int
}

func (f listFilter) match(tx models.RemoteTransaction) bool {
	date := tx.CreatedAt
	if len(date) >= len(time.DateOnly) {
		date = date[:len(time.DateOnly)]
	}
	switch {
	case f.from != "" && date < f.from:
		return false
	case f.to != "" && date > f.to:
		return false
	case f.currency != "" && !strings.EqualFold(tx.Currency, f.currency):
		return false
	case f.status != "" && string(tx.Status) != f.status:
		return false
	case f.batchID != "" && tx.BatchID != f.batchID:
		return false
	case f.sourceID != "" && tx.SourceID != f.sourceID:
		return false
	}
	return true
}

func (p *Provider) listTransactions(w http.ResponseWriter, r *http.Request) {
	if !p.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Code:    "unauthorized",
			Message: "Access token is missing or expired",
		})
		return
	}

	filter, msg := parseListFilter(r)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "validation_error", Message: msg})
		return
	}

	p.mu.RLock()
	matched := make([]models.RemoteTransaction, 0)
	for _, tx := range p.txns {
		if filter.match(tx) {
			matched = append(matched, tx)
		}
	}
	p.mu.RUnlock()

	start := min(filter.pageNum*filter.pageSize, len(matched))
	end := min(start+filter.pageSize, len(matched))

	p.logger.Debug("listing transactions",
		"page_num", filter.pageNum,
		"page_size", filter.pageSize,
		"matched", len(matched),
		"returned", end-start,
	)

	writeJSON(w, http.StatusOK, models.TransactionPage{
		Items:   matched[start:end],
		HasMore: end < len(matched),
	})
}

func parseListFilter(r *http.Request) (listFilter, string) {
	q := r.URL.Query()
	f := listFilter{
		currency: q.Get("currency"),
		status:   q.Get("status"),
		batchID:  q.Get("batch_id"),
		sourceID: q.Get("source_id"),
		pageSize: defaultPageSize,
	}

	var ok bool
	if f.from, ok = dateParam(q.Get("from_created_at")); !ok {
		return f, "from_created_at must be a date (YYYY-MM-DD) or timestamp"
	}
	if f.to, ok = dateParam(q.Get("to_created_at")); !ok {
		return f, "to_created_at must be a date (YYYY-MM-DD) or timestamp"
	}

	if v := q.Get("page_num"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, "page_num must be a non-negative integer"
		}
		f.pageNum = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return f, "page_size must be between 1 and 1000"
		}
		f.pageSize = n
	}
	return f, ""
}

// dateParam accepts a date or an RFC 3339 timestamp and returns the date part.
func dateParam(v string) (string, bool) {
	if v == "" {
		return "", true
	}
	if _, err := time.Parse(time.DateOnly, v); err == nil {
		return v, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC().Format(time.DateOnly), true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Best effort response writing
}
