package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/discograph/pkg/observability"
)

// Metrics holds the Prometheus collectors of one process. Besides the
// server's own request metrics it implements the observability hook
// interfaces, so that client, cache and explorer events land in the same
// registry once [Metrics.Install] is called.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	catalogReloads  *prometheus.CounterVec
	catalogRecords  prometheus.Gauge

	upstreamRequests *prometheus.CounterVec
	upstreamErrors   *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheEvents      *prometheus.CounterVec
	cacheBytes       prometheus.Counter
	reloads          *prometheus.CounterVec
	expansions       *prometheus.CounterVec
	expandedNodes    prometheus.Counter
	layoutDuration   *prometheus.HistogramVec
}

// NewMetrics registers the discograph collectors, plus the Go runtime and
// process collectors, in a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := factory{reg}

	return &Metrics{
		registry: reg,
		requests: f.counterVec("discograph_http_requests_total",
			"API requests served, labelled by route and status code.", "route", "code"),
		requestDuration: f.histogramVec("discograph_http_request_duration_seconds",
			"API request latency.", "route"),
		catalogReloads: f.counterVec("discograph_catalog_reloads_total",
			"Catalog file reloads, labelled by result.", "result"),
		catalogRecords: f.gauge("discograph_catalog_records",
			"Discoveries held by the catalog after the last load."),

		upstreamRequests: f.counterVec("discograph_client_requests_total",
			"Backend requests made by the client, labelled by route and status code.", "route", "code"),
		upstreamErrors: f.counterVec("discograph_client_errors_total",
			"Backend requests that failed before a response.", "route"),
		upstreamDuration: f.histogramVec("discograph_client_request_duration_seconds",
			"Backend request latency seen by the client.", "route"),
		cacheEvents: f.counterVec("discograph_cache_events_total",
			"Response cache lookups and writes, labelled by key type and event.", "type", "event"),
		cacheBytes: f.counter("discograph_cache_written_bytes_total",
			"Bytes written to the response cache."),
		reloads: f.counterVec("discograph_graph_reloads_total",
			"Graph reloads, labelled by outcome.", "outcome"),
		expansions: f.counterVec("discograph_expansions_total",
			"Topic expansions, labelled by outcome.", "outcome"),
		expandedNodes: f.counter("discograph_expanded_nodes_total",
			"Discovery nodes added by expansions."),
		layoutDuration: f.histogramVec("discograph_layout_duration_seconds",
			"Layout provider run time.", "engine"),
	}
}

type factory struct{ reg prometheus.Registerer }

func (f factory) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) counter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	f.reg.MustRegister(c)
	return c
}

func (f factory) gauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	f.reg.MustRegister(g)
	return g
}

func (f factory) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, labels)
	f.reg.MustRegister(h)
	return h
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install registers m as the global explorer, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetExplorerHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// CatalogLoaded records a catalog (re)load.
func (m *Metrics) CatalogLoaded(records int, err error) {
	if err != nil {
		m.catalogReloads.WithLabelValues("error").Inc()
		return
	}
	m.catalogReloads.WithLabelValues("ok").Inc()
	m.catalogRecords.Set(float64(records))
}

func (m *Metrics) observeRequest(route string, code int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// HTTP hooks

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, _, path string, code int, d time.Duration) {
	m.upstreamRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	m.upstreamDuration.WithLabelValues(path).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, _, path string, _ error) {
	m.upstreamErrors.WithLabelValues(path).Inc()
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

// Explorer hooks

func (m *Metrics) OnReloadStart(context.Context, string) {}

func (m *Metrics) OnReloadComplete(_ context.Context, _ string, _ int, stale bool, _ time.Duration, err error) {
	m.reloads.WithLabelValues(outcome(err, stale)).Inc()
}

func (m *Metrics) OnExpandStart(context.Context, string) {}

func (m *Metrics) OnExpandComplete(_ context.Context, _ string, added int, _ time.Duration, err error) {
	m.expansions.WithLabelValues(outcome(err, false)).Inc()
	if err == nil {
		m.expandedNodes.Add(float64(added))
	}
}

func (m *Metrics) OnLayoutComplete(_ context.Context, engine string, _ int, d time.Duration, err error) {
	if err == nil {
		m.layoutDuration.WithLabelValues(engine).Observe(d.Seconds())
	}
}

func outcome(err error, stale bool) string {
	switch {
	case err != nil:
		return "error"
	case stale:
		return "stale"
	default:
		return "ok"
	}
}

var (
	_ observability.HTTPHooks     = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ExplorerHooks = (*Metrics)(nil)
)
