package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/gridboard/pkg/observability"
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff defaults.
const (
	DefaultAttempts   = 3
	DefaultRetryDelay = 100 * time.Millisecond
)

type retryConfig struct {
	attempts int
	delay    time.Duration
}

// RetryOption configures RetryWithBackoff.
type RetryOption func(*retryConfig)

// WithAttempts sets the total number of attempts, including the first.
func WithAttempts(n int) RetryOption { return func(c *retryConfig) { c.attempts = max(n, 1) } }

// WithDelay sets the delay before the first retry. It doubles after each
// retry.
func WithDelay(d time.Duration) RetryOption { return func(c *retryConfig) { c.delay = d } }

// RetryWithBackoff retries fn with exponential backoff.
// Only errors wrapped with Retryable will trigger retries.
func RetryWithBackoff(ctx context.Context, fn func() error, opts ...RetryOption) error {
	cfg := retryConfig{attempts: DefaultAttempts, delay: DefaultRetryDelay}
	for _, opt := range opts {
		opt(&cfg)
	}

	delay := cfg.delay
	var lastErr error
	for i := 0; i < cfg.attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < cfg.attempts-1 {
			observability.Store().OnRetry(ctx, i+1, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
