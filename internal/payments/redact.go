package payments

import (
	"net/http"
	"regexp"
	"strings"
)

// Mask replaces sensitive values in logs and error messages.
const Mask = "****"

var sensitiveHeaderParts = []string{"key", "password", "token", "auth", "secret"}

var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`)

// IsSensitiveHeader reports whether a header with this name may carry credentials.
func IsSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	for _, part := range sensitiveHeaderParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// MaskHeaders flattens headers into a map with sensitive values replaced by Mask.
func MaskHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if IsSensitiveHeader(name) {
			out[name] = Mask
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// Redactor scrubs known secret values and bearer tokens from text.
type Redactor struct {
	secrets []string
}

// NewRedactor returns a Redactor for the given secrets. Empty values are ignored.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{}
	for _, s := range secrets {
		if s != "" {
			r.secrets = append(r.secrets, s)
		}
	}
	return r
}

// Redact returns s with every secret and bearer token replaced by Mask.
func (r *Redactor) Redact(s string) string {
	if r != nil {
		for _, secret := range r.secrets {
			s = strings.ReplaceAll(s, secret, Mask)
		}
	}
	return bearerPattern.ReplaceAllString(s, "Bearer "+Mask)
}
