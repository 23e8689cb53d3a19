package models

import "time"

// Token is a bearer token issued by the payments API.
// A zero ExpiresAt means the expiry is unknown and the token must not be reused.
type Token struct {
	ExpiresAt time.Time `json:"expires_at"`
	Value     string    `json:"token"`
}

// AuthResponse is the login response body. ExpiresAt is kept raw so a
// malformed value can be detected by the caller.
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Credentials identify this client to the payments API. Immutable at runtime.
type Credentials struct {
	BaseURL  string
	ClientID string
	APIKey   string
}
