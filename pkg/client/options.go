package client

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discograph/pkg/cache"
)

// DefaultTTL is how long cached responses stay fresh.
const DefaultTTL = time.Hour

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache stores responses in ch for ttl. A zero ttl uses [DefaultTTL].
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = ch
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyer sets the cache key scheme.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.keyer = k }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetry sets the retry attempts and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.delay = delay
	}
}

// WithRefresh bypasses cached responses while still storing fresh ones.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithTimeout bounds each request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}
