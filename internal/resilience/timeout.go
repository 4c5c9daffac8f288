package resilience

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultTimeout bounds ordinary network calls.
	DefaultTimeout = 30 * time.Second
	// AITimeout is longer to accommodate model latency.
	AITimeout = 60 * time.Second
)

// WithTimeout runs fn under a deadline. When the deadline expires the
// derived context is cancelled and the call fails with ErrTimeout; a
// cancellation of the parent ctx is surfaced as context.Canceled instead.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := fn(callCtx)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		var zero T
		return zero, ErrTimeout
	}

	return result, err
}
