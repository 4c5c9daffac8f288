package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fast schedule so retry tests finish in milliseconds
func testConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		Multiplier:   2,
		MaxDelay:     10 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds first try without retrying", func(t *testing.T) {
		calls := 0
		result, err := WithRetry(context.Background(), testConfig(3), func(ctx context.Context) (string, error) {
			calls++
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient 503 and returns eventual success", func(t *testing.T) {
		const failures = 2
		calls := 0
		result, err := WithRetry(context.Background(), testConfig(3), func(ctx context.Context) (string, error) {
			calls++
			if calls <= failures {
				return "", &APIError{Code: "model_backend_error", Message: "overloaded", Status: 503}
			}
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, failures+1, calls)
	})

	t.Run("does not retry a non-retryable 429", func(t *testing.T) {
		calls := 0
		quotaErr := NonRetryable(&APIError{Code: "quota_exceeded", Message: "Daily limit reached", Status: 429})

		_, err := WithRetry(context.Background(), testConfig(3), func(ctx context.Context) (string, error) {
			calls++
			return "", quotaErr
		})

		assert.Equal(t, 1, calls)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "quota_exceeded", apiErr.Code)
	})

	t.Run("does not retry a non-retryable status", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), testConfig(3), func(ctx context.Context) (string, error) {
			calls++
			return "", &APIError{Code: "invalid_request", Message: "missing field", Status: 400}
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts retries and returns the last error", func(t *testing.T) {
		calls := 0
		cfg := testConfig(2)

		_, err := WithRetry(context.Background(), cfg, func(ctx context.Context) (string, error) {
			calls++
			return "", fmt.Errorf("attempt %d failed", calls)
		})

		require.Error(t, err)
		assert.Equal(t, cfg.MaxRetries+1, calls)
		assert.Contains(t, err.Error(), "attempt 3 failed")
	})

	t.Run("cancellation stops the retry loop between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		cfg := RetryConfig{
			MaxRetries:   5,
			InitialDelay: time.Second,
			Multiplier:   2,
			MaxDelay:     10 * time.Second,
		}

		_, err := WithRetry(ctx, cfg, func(ctx context.Context) (string, error) {
			calls++
			cancel()
			return "", errors.New("transient")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryConfigDelay(t *testing.T) {
	cfg := DefaultRetryConfig()

	t.Run("delay stays within jitter bounds", func(t *testing.T) {
		for attempt := 0; attempt < 3; attempt++ {
			base := time.Duration(float64(cfg.InitialDelay) * pow(cfg.Multiplier, attempt))
			upper := time.Duration(1.3 * float64(base))
			if upper > cfg.MaxDelay {
				upper = cfg.MaxDelay
			}

			for i := 0; i < 50; i++ {
				d := cfg.Delay(attempt)
				assert.GreaterOrEqual(t, d, min(base, cfg.MaxDelay), "attempt %d", attempt)
				assert.LessOrEqual(t, d, upper, "attempt %d", attempt)
			}
		}
	})

	t.Run("delay is capped at max delay", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			assert.LessOrEqual(t, cfg.Delay(10), cfg.MaxDelay)
		}
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"timeout", ErrTimeout, true},
		{"context canceled", context.Canceled, false},
		{"unclassified error defaults retryable", errors.New("connection reset"), true},
		{"retryable status 503", &APIError{Status: 503}, true},
		{"retryable status 429", &APIError{Status: 429}, true},
		{"non-retryable status 400", &APIError{Status: 400}, false},
		{"non-retryable status 401", &APIError{Status: 401}, false},
		{"explicit override beats retryable status", NonRetryable(&APIError{Status: 429}), false},
		{"api error without status defaults retryable", &APIError{Code: "network_error"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
