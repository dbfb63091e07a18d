package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/docsearch"
)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// withRetry calls fetch until it succeeds, fails permanently, or the
// delays are used up. onRetry is called before each retry.
func withRetry(ctx context.Context, delays []time.Duration, fetch func(context.Context) ([]byte, error), onRetry func(attempt int, err error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		body, err := fetch(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == len(delays) || !retryable(err) {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		onRetry(attempt+2, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return nil, lastErr
}

// retryable reports whether a failed request may succeed later.
// Network errors and 5xx or 429 responses are transient.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	var appErr *docsearch.Error
	return !errors.As(err, &appErr)
}
