package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// RequestValidator returns middleware that rejects requests not matching doc
// with 400 invalid_request. Requests for routes the document does not describe
// (metrics, docs, unknown paths) pass through untouched.
func RequestValidator(doc *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	// Match on path only; the served host varies by deployment.
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	opts := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    opts,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				msg := validationMessage(err)
				logger.Debug("request rejected by validator",
					"method", r.Method,
					"path", r.URL.Path,
					"reason", msg,
				)
				WriteError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// validationMessage flattens a kin-openapi error into one line without the
// schema dump.
func validationMessage(err error) string {
	reason := firstLine(err.Error())

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		reason = schemaErr.Reason
		if ptr := schemaErr.JSONPointer(); len(ptr) > 0 {
			reason = strings.Join(ptr, ".") + ": " + reason
		}
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if schemaErr == nil {
			reason = requestErrorReason(reqErr)
		}
		switch {
		case reqErr.Parameter != nil:
			return fmt.Sprintf("invalid parameter %q: %s", reqErr.Parameter.Name, reason)
		case reqErr.RequestBody != nil:
			return "invalid request body: " + reason
		}
	}

	return reason
}

func requestErrorReason(e *openapi3filter.RequestError) string {
	if e.Reason != "" {
		return e.Reason
	}
	if e.Err != nil {
		return firstLine(e.Err.Error())
	}
	return "invalid request"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
