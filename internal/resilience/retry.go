package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/wodwise/gateway/internal/logger"
)

type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Second,
		Multiplier:   2,
		MaxDelay:     10 * time.Second,
	}
}

// AIRetryConfig caps retries low because every attempt re-incurs full
// model latency.
func AIRetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 2
	return cfg
}

// Delay returns the backoff before retry attempt n (0-indexed):
// initialDelay * multiplier^n plus jitter uniform in [0, 0.3 * base],
// capped at MaxDelay.
func (c RetryConfig) Delay(attempt int) time.Duration {
	base := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	jitter := rand.Float64() * 0.3 * base //nolint:gosec

	delay := time.Duration(base + jitter)
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}

	return delay
}

// WithRetry invokes fn until it succeeds, fails with a non-retryable
// error, or exhausts cfg.MaxRetries additional attempts. Sleeps between
// attempts honor ctx cancellation.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, cfg.Delay(attempt-1)); err != nil {
				return zero, err
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			logger.Debug("retrying after transient failure",
				"attempt", attempt+1,
				"max_retries", cfg.MaxRetries,
				"error", err.Error(),
			)
		}
	}

	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
