package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTimeout(t *testing.T) {
	t.Run("passes through a fast success", func(t *testing.T) {
		result, err := WithTimeout(context.Background(), time.Second, func(ctx context.Context) (int, error) {
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, result)
	})

	t.Run("aborts a call that never resolves", func(t *testing.T) {
		const timeout = 50 * time.Millisecond
		start := time.Now()

		_, err := WithTimeout(context.Background(), timeout, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

		elapsed := time.Since(start)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.GreaterOrEqual(t, elapsed, timeout)
		assert.Less(t, elapsed, timeout+200*time.Millisecond)
	})

	t.Run("timeout errors are retryable", func(t *testing.T) {
		_, err := WithTimeout(context.Background(), time.Millisecond, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

		require.ErrorIs(t, err, ErrTimeout)
		assert.True(t, IsRetryable(err))
	})

	t.Run("parent cancellation surfaces as canceled, not timeout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := WithTimeout(ctx, time.Minute, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, IsRetryable(err))
	})
}
