package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxDelay caps the wait between two attempts.
const MaxDelay = 30 * time.Second

// RetryableError marks a transient failure (network error, 5xx, 429).
// [Retry] only repeats calls that fail with it.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err in a [RetryableError]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Retry calls fn up to attempts times. Retryable failures wait delay, then
// twice that, and so on up to [MaxDelay]; any other error is returned at
// once. When every attempt fails the last error is returned, and a canceled
// ctx ends the wait with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for n := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if n == attempts-1 {
			break
		}

		t := time.NewTimer(backoff(delay, n))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// backoff returns the wait after the n-th failed attempt (0-based).
func backoff(delay time.Duration, n int) time.Duration {
	d := delay
	for range n {
		if d >= MaxDelay/2 {
			return MaxDelay
		}
		d *= 2
	}
	return min(d, MaxDelay)
}
