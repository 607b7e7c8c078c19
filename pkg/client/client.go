package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/discograph/pkg/cache"
	"github.com/matzehuels/discograph/pkg/catalog"
	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/httputil"
	"github.com/matzehuels/discograph/pkg/observability"
)

var (
	// ErrNotFound is returned when the backend answers 404.
	ErrNotFound = httputil.ErrNotFound

	// ErrNetwork is returned for connection failures and unexpected
	// status codes.
	ErrNetwork = httputil.ErrNetwork
)

// maxBody caps the size of a decoded response.
const maxBody = 32 << 20

// Client talks to the backend API. It is safe for concurrent use.
type Client struct {
	base     string
	host     string
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	logger   *log.Logger
	attempts int
	delay    time.Duration
	refresh  bool

	group singleflight.Group
}

// New returns a client for the backend at baseURL. Without [WithCache]
// responses are not cached.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid backend URL %q", baseURL)
	}
	c := &Client{
		base:     strings.TrimRight(u.String(), "/"),
		host:     u.Host,
		http:     httputil.NewClient(),
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		ttl:      DefaultTTL,
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.base }

// FetchGraph returns the topic-level graph for f. Every call returns a
// fresh graph owned by the caller.
func (c *Client) FetchGraph(ctx context.Context, f graph.Filter) (*graph.Graph, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	key := c.keyer.GraphKey(f.Topic, f.MinYear, f.MaxYear)
	data, err := c.cached(ctx, key, func() ([]byte, error) {
		return c.get(ctx, "/graph", "/graph?"+f.Query().Encode())
	}, func(data []byte) error {
		_, err := graph.ReadGraph(bytes.NewReader(data))
		return err
	})
	if err != nil {
		return nil, fetchError(err, "fetch graph %s", f)
	}
	g, err := graph.ReadGraph(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "decode graph %s", f)
	}
	c.logger.Debug("fetched graph", "filter", f.String(), "topics", g.NodeCount())
	return g, nil
}

// FetchDiscoveries returns the discoveries of a topic in backend order.
// A topic unknown to the backend yields an empty list.
func (c *Client) FetchDiscoveries(ctx context.Context, topic string) ([]graph.Discovery, error) {
	if err := errors.ValidateTopicName(topic); err != nil {
		return nil, err
	}
	var ds []graph.Discovery
	data, err := c.cached(ctx, c.keyer.DiscoveriesKey(topic), func() ([]byte, error) {
		data, err := c.get(ctx, "/discoveries", "/discoveries/"+url.PathEscape(topic))
		if stderrors.Is(err, ErrNotFound) {
			return []byte("[]"), nil
		}
		return data, err
	}, func(data []byte) error {
		return json.Unmarshal(data, &[]graph.Discovery{})
	})
	if err != nil {
		return nil, fetchError(err, "fetch discoveries for %s", topic)
	}
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "decode discoveries for %s", topic)
	}
	if ds == nil {
		ds = []graph.Discovery{}
	}
	c.logger.Debug("fetched discoveries", "topic", topic, "count", len(ds))
	return ds, nil
}

// Topics lists the topics known to the backend.
func (c *Client) Topics(ctx context.Context) ([]catalog.Topic, error) {
	data, err := c.cached(ctx, c.keyer.TopicsKey(), func() ([]byte, error) {
		return c.get(ctx, "/topics", "/topics")
	}, func(data []byte) error {
		return json.Unmarshal(data, &[]catalog.Topic{})
	})
	if err != nil {
		return nil, fetchError(err, "fetch topics")
	}
	var ts []catalog.Topic
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "decode topics")
	}
	return ts, nil
}

// Colour returns the color the backend assigns to a branch. Colours are
// not cached.
func (c *Client) Colour(ctx context.Context, branch string) (string, error) {
	var data []byte
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		data, err = c.get(ctx, "/colour", "/colour/"+url.PathEscape(branch))
		return err
	})
	if err != nil {
		return "", fetchError(err, "fetch colour for %s", branch)
	}
	var resp struct {
		Color string `json:"color"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", errors.Wrap(errors.ErrCodeTransport, err, "decode colour for %s", branch)
	}
	return resp.Color, nil
}

// cached serves key from the cache, or runs fetch with retries and stores
// the body once validate accepts it. Concurrent calls for the same key
// share one fetch.
func (c *Client) cached(ctx context.Context, key string, fetch func() ([]byte, error), validate func([]byte) error) ([]byte, error) {
	if !c.refresh {
		data, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn("cache read failed", "key", key, "err", err)
		case ok && validate(data) == nil:
			return data, nil
		case ok:
			_ = c.cache.Delete(ctx, key)
		}
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		var data []byte
		err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
			var err error
			data, err = fetch()
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := validate(data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("cache write failed", "key", key, "err", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("shared in-flight request", "key", key)
	}
	return v.([]byte), nil
}

// get issues a GET for path (already escaped) and returns the body. route
// is the unparameterized path reported to the HTTP hooks.
func (c *Client) get(ctx context.Context, route, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, c.host, route)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, c.host, route, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, c.host, route, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return data, nil
}

// fetchError codes a failed request as a timeout when a deadline expired and
// as a transport error otherwise.
func fetchError(err error, format string, args ...any) error {
	code := errors.ErrCodeTransport
	var te interface{ Timeout() bool }
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &te) && te.Timeout()) {
		code = errors.ErrCodeTimeout
	}
	return errors.Wrap(code, err, format, args...)
}
