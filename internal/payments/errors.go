package payments

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrNonJSONResponse marks a response body that could not be decoded as JSON.
	ErrNonJSONResponse = errors.New("payments: non-JSON response")

	// ErrMissingToken indicates a login response without a token.
	ErrMissingToken = errors.New("payments: authentication response has no token")
)

// RemoteAPIError is a non-2xx (or undecodable) response from the payments API.
// Body is already redacted of credential material.
type RemoteAPIError struct {
	Err        error
	Body       string
	URL        string
	Status     int
	RetryAfter time.Duration
}

func (e *RemoteAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payments: API error %d: %v: %s (URL: %s)", e.Status, e.Err, e.Body, e.URL)
	}
	return fmt.Sprintf("payments: API error %d: %s (URL: %s)", e.Status, e.Body, e.URL)
}

func (e *RemoteAPIError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the same request may succeed.
func (e *RemoteAPIError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// AuthError is returned when a bearer token cannot be obtained.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("payments: authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err is or wraps an *AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsUnauthorized reports whether the API rejected the credentials or token.
func IsUnauthorized(err error) bool {
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

// IsTransient reports whether err is a retryable API failure.
func IsTransient(err error) bool {
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return false
}
