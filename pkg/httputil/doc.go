// Package httputil provides HTTP helpers shared by the backend client.
//
//   - [Retry]: retry with exponential backoff for transient failures
//   - [CheckStatus]: map HTTP status codes onto sentinel errors
//   - [NewClient]: an *http.Client with the default timeout
//
// Only errors wrapped in [RetryableError] are retried: network failures and
// 5xx responses. A 404 maps to [ErrNotFound] and is returned immediately.
package httputil
