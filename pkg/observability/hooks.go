// Package observability provides hooks for metrics and logging.
//
// Instrumentation is optional: libraries emit events through the registered
// hooks and the binary decides where they go. The server registers
// Prometheus-backed hooks; everything else runs with no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExplorerHooks(&myExplorerHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Explorer().OnExpandStart(ctx, topicID)
//	// ... fetch and merge ...
//	observability.Explorer().OnExpandComplete(ctx, topicID, added, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Explorer Hooks
// =============================================================================

// ExplorerHooks receives events from graph reloads and expansions.
type ExplorerHooks interface {
	// Reload events. stale is true when a newer reload won the race and this
	// result was discarded.
	OnReloadStart(ctx context.Context, filter string)
	OnReloadComplete(ctx context.Context, filter string, topics int, stale bool, duration time.Duration, err error)

	// Expansion events. added is the number of discoveries merged.
	OnExpandStart(ctx context.Context, topic string)
	OnExpandComplete(ctx context.Context, topic string, added int, duration time.Duration, err error)

	// Layout events
	OnLayoutComplete(ctx context.Context, engine string, nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExplorerHooks is a no-op implementation of ExplorerHooks.
type NoopExplorerHooks struct{}

func (NoopExplorerHooks) OnReloadStart(context.Context, string) {}
func (NoopExplorerHooks) OnReloadComplete(context.Context, string, int, bool, time.Duration, error) {
}
func (NoopExplorerHooks) OnExpandStart(context.Context, string)                               {}
func (NoopExplorerHooks) OnExpandComplete(context.Context, string, int, time.Duration, error) {}
func (NoopExplorerHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds the hooks of one kind. Reads are lock-free so hot paths (every
// request, every cache lookup) never contend.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{noop: noop} }

func (s *slot[T]) get() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.noop
}

func (s *slot[T]) reset() { s.p.Store(nil) }

var (
	explorerSlot = newSlot[ExplorerHooks](NoopExplorerHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetExplorerHooks registers explorer hooks. Nil is ignored.
func SetExplorerHooks(h ExplorerHooks) {
	if h != nil {
		explorerSlot.p.Store(&h)
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.p.Store(&h)
	}
}

// SetHTTPHooks registers HTTP client hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.p.Store(&h)
	}
}

// Explorer returns the registered explorer hooks.
func Explorer() ExplorerHooks { return explorerSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores the no-op hooks. Tests that install hooks call it.
func Reset() {
	explorerSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
