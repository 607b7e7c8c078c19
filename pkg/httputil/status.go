package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds every request made by clients from [NewClient].
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for connection failures, timeouts and
	// unexpected status codes.
	ErrNetwork = errors.New("network error")
)

// NewClient returns an HTTP client with [DefaultTimeout].
func NewClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// CheckStatus maps a status code to an error. 2xx is success, 404 is
// [ErrNotFound], 5xx and 429 are retryable [ErrNetwork] failures, and any
// other code is a non-retryable [ErrNetwork].
func CheckStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500, code == http.StatusTooManyRequests:
		return Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
