package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/benx421/bank-sync/internal/metrics"
)

// newBreaker opens after consecutive transient failures and probes again after timeout.
// Client errors (4xx other than 429), auth failures and caller cancellation do not count.
func newBreaker(name string, failures uint32, timeout time.Duration, logger *slog.Logger) *gobreaker.CircuitBreaker[*rawResponse] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !countsAsBreakerFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func countsAsBreakerFailure(err error) bool {
	if errors.Is(err, context.Canceled) || IsAuthError(err) {
		return false
	}
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return true
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
