package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discograph/pkg/cache"
	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
)

func quiet() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

func newTestClient(t *testing.T, h http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRetry(3, time.Millisecond), WithLogger(quiet())}, opts...)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c, srv
}

func TestFetchGraph(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graph" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"nodes": [{"id": "Optics", "level": 0, "label": "Optics", "branch": "Physics"}], "links": []}`))
	}))

	g, err := c.FetchGraph(context.Background(), graph.Filter{Topic: "Physics", MinYear: 1900, MaxYear: 2000})
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "max_year=2000&min_year=1900&topic=Physics" {
		t.Errorf("query = %q", gotQuery)
	}
	if g.NodeCount() != 1 || g.Nodes[0].Branch != "Physics" || !g.Nodes[0].IsTopic() {
		t.Errorf("graph = %+v", g.Nodes)
	}
}

func TestFetchGraphInvalidFilter(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())
	_, err := c.FetchGraph(context.Background(), graph.Filter{MinYear: -5, MaxYear: 100})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestFetchGraphReturnsOwnedCopies(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes": [{"id": "Optics", "level": 0}], "links": []}`))
	}), WithCache(fc, time.Minute))

	ctx := context.Background()
	a, err := c.FetchGraph(ctx, graph.DefaultFilter())
	if err != nil {
		t.Fatal(err)
	}
	a.Nodes[0].X = 99
	b, err := c.FetchGraph(ctx, graph.DefaultFilter())
	if err != nil {
		t.Fatal(err)
	}
	if b.Nodes[0].X != 0 {
		t.Error("cached graph shares nodes with an earlier result")
	}
}

func TestFetchDiscoveries(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discoveries/Earth Science" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[{"name": "Plate tectonics", "year": 1912, "url": "u"}, {"name": "Ice ages", "year": null, "url": "v"}]`))
	}))
	ds, err := c.FetchDiscoveries(context.Background(), "Earth Science")
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 2 || ds[0].Name != "Plate tectonics" || *ds[0].Year != 1912 || ds[1].Year != nil {
		t.Errorf("discoveries = %+v", ds)
	}
}

func TestFetchDiscoveriesNotFoundIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())
	ds, err := c.FetchDiscoveries(context.Background(), "Alchemy")
	if err != nil {
		t.Fatal(err)
	}
	if ds == nil || len(ds) != 0 {
		t.Errorf("discoveries = %v, want empty non-nil", ds)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	if _, err := c.FetchDiscoveries(context.Background(), "Optics"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestTransportError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		calls  int32
	}{
		{"server error exhausts retries", http.StatusInternalServerError, 3},
		{"client error not retried", http.StatusUnprocessableEntity, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			_, err := c.FetchDiscoveries(context.Background(), "Optics")
			if !errors.Is(err, errors.ErrCodeTransport) {
				t.Errorf("err = %v, want TRANSPORT_ERROR", err)
			}
			if calls.Load() != tt.calls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.calls)
			}
		})
	}
}

func TestUnreachableBackend(t *testing.T) {
	c, err := New("http://127.0.0.1:1", WithRetry(1, time.Millisecond), WithLogger(quiet()))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.FetchGraph(context.Background(), graph.DefaultFilter())
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("err = %v, want TRANSPORT_ERROR", err)
	}
}

func TestDeadlineIsTimeout(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}), WithRetry(1, time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.FetchDiscoveries(ctx, "Optics")
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("err = %v, want TIMEOUT", err)
	}
}

func TestCacheServesRepeatRequests(t *testing.T) {
	var calls atomic.Int32
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode([]map[string]any{{"name": "Optics", "branch": "Physics"}})
	})
	c, srv := newTestClient(t, h, WithCache(fc, time.Minute))

	ctx := context.Background()
	for range 3 {
		ts, err := c.Topics(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(ts) != 1 || ts[0].Branch != "Physics" {
			t.Fatalf("topics = %v", ts)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}

	fresh, err := New(srv.URL, WithCache(fc, time.Minute), WithRefresh(true), WithLogger(quiet()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fresh.Topics(ctx); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("refresh calls = %d, want 2", calls.Load())
	}
}

func TestConcurrentFetchesShareRequest(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(`[{"name": "Lens", "year": 1000, "url": "u"}]`))
	}))

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.FetchDiscoveries(context.Background(), "Optics")
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() > 2 {
		t.Errorf("calls = %d, want concurrent fetches collapsed", calls.Load())
	}
}

func TestColour(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"color": "#00bcd4"}`))
	}))
	got, err := c.Colour(context.Background(), "Physics")
	if err != nil || got != "#00bcd4" {
		t.Errorf("Colour = %q, %v", got, err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8000", "://x"} {
		if _, err := New(u); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("New(%q) err = %v", u, err)
		}
	}
}
