// Package resilience gives outbound calls a bounded lifetime and a
// backed-off retry policy without each caller re-implementing either.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// statuses worth retrying; everything else fails fast
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// APIError is a failed call with enough classification for the retry loop.
// Retryable left nil means "decide from the status code".
type APIError struct {
	Code      string
	Message   string
	Status    int
	Retryable *bool
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrTimeout marks a call that outlived its deadline. Timeouts are
// transient, so the retry loop treats them as retryable.
var ErrTimeout = errors.New("operation timed out")

// IsRetryable reports whether err is worth another attempt. An explicit
// Retryable=false always wins; a status code outside the retryable set is
// final; anything unclassified defaults to retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, ErrTimeout) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Retryable != nil && !*apiErr.Retryable {
			return false
		}
		if apiErr.Status > 0 && !retryableStatuses[apiErr.Status] {
			return false
		}
		return true
	}

	return true
}

// NonRetryable marks an APIError as final regardless of its status code.
func NonRetryable(err *APIError) *APIError {
	no := false
	err.Retryable = &no
	return err
}
