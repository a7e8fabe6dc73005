package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// errDependencyFailure marks a request the breaker counts as failed.
var errDependencyFailure = errors.New("dependency failure")

type failureKey struct{}

// MarkDependencyFailure flags the current request as failed because of a
// downstream dependency. Only flagged requests count against the breaker, so
// client mistakes answered with 500 never trip it.
func MarkDependencyFailure(ctx context.Context) {
	if flag, ok := ctx.Value(failureKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
}

// CircuitBreakerConfig holds configuration for circuit breaker
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker rejects requests with an empty 503 while the breaker is open.
func CircuitBreaker(config CircuitBreakerConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := cb.Execute(func() (any, error) {
				failed := &atomic.Bool{}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), failureKey{}, failed)))
				if failed.Load() {
					return nil, errDependencyFailure
				}
				return nil, nil
			})

			switch {
			case err == nil, errors.Is(err, errDependencyFailure):
				// The handler already wrote its response.
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				logger.Warn("Circuit breaker rejected request",
					zap.String("name", config.Name),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
			default:
				logger.Error("Circuit breaker internal error", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
			}
		})
	}
}
