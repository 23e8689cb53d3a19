// Package payments is the client for the remote payments API: login, bearer
// token caching and paged financial-transaction retrieval.
package payments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/benx421/bank-sync/internal/metrics"
	"github.com/benx421/bank-sync/internal/models"
)

const (
	// DefaultTimeout bounds every remote call.
	DefaultTimeout = 30 * time.Second

	loginPath    = "/authentication/login"
	maxBodyBytes = 10 << 20
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator struct {
	httpClient *http.Client
	redactor   *Redactor
	creds      models.Credentials
	timeout    time.Duration
}

// NewAuthenticator creates an Authenticator. A nil httpClient uses a client
// without a transport-level timeout; the per-call timeout still applies.
func NewAuthenticator(creds models.Credentials, httpClient *http.Client, timeout time.Duration) *Authenticator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Authenticator{
		httpClient: httpClient,
		redactor:   NewRedactor(creds.APIKey),
		creds:      creds,
		timeout:    timeout,
	}
}

// Authenticate performs one login call. Any failure is returned as *AuthError.
func (a *Authenticator) Authenticate(ctx context.Context) (*models.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reqURL := strings.TrimRight(a.creds.BaseURL, "/") + loginPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", a.creds.ClientID)
	req.Header.Set("x-api-key", a.creds.APIKey)

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	metrics.PaymentsRequestDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PaymentsRequests.WithLabelValues("login", "transport").Inc()
		return nil, &AuthError{Err: fmt.Errorf("login request failed: %s", a.redactor.Redact(err.Error()))}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	metrics.PaymentsRequests.WithLabelValues("login", metrics.OutcomeForStatus(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to read login response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{Err: &RemoteAPIError{
			Status: resp.StatusCode,
			Body:   clip(a.redactor.Redact(string(data)), maxLoggedBody),
			URL:    reqURL,
		}}
	}

	var out models.AuthResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &AuthError{Err: &RemoteAPIError{
			Status: resp.StatusCode,
			Body:   clip(a.redactor.Redact(string(data)), maxLoggedBody),
			URL:    reqURL,
			Err:    ErrNonJSONResponse,
		}}
	}
	if out.Token == "" {
		return nil, &AuthError{Err: ErrMissingToken}
	}

	return &out, nil
}

// TestAuthentication runs a login and describes the outcome for an operator.
func (a *Authenticator) TestAuthentication(ctx context.Context) (string, error) {
	resp, err := a.Authenticate(ctx)
	if err != nil {
		return fmt.Sprintf("Authentication failed: %v", err), err
	}
	if resp.ExpiresAt == "" {
		return "Authentication successful", nil
	}
	return fmt.Sprintf("Authentication successful, token expires at %s", resp.ExpiresAt), nil
}
