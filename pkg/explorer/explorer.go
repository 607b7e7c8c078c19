// Package explorer drives an explorable graph: it reloads the topic-level
// graph when the filter changes and merges fetched discoveries when a topic
// is selected.
//
// Reloads and expansions may run concurrently. Every reload takes a
// generation token from the store and only the newest reload commits; an
// expansion that finishes after a newer reload was committed is dropped.
package explorer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/expand"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/layout"
	"github.com/matzehuels/discograph/pkg/observability"
	"github.com/matzehuels/discograph/pkg/store"
)

// Fetcher loads data from the backend. *client.Client implements it.
type Fetcher interface {
	FetchGraph(ctx context.Context, f graph.Filter) (*graph.Graph, error)
	FetchDiscoveries(ctx context.Context, topic string) ([]graph.Discovery, error)
}

// Options configures an [Explorer]. Zero values pick defaults.
type Options struct {
	Store    *store.Store
	Expander *expand.Expander
	// Layout positions nodes after each reload and expansion. Nil keeps the
	// seeded positions.
	Layout layout.Provider
	Logger *log.Logger
}

// Explorer coordinates the fetcher, the graph store, the merge engine and
// the layout provider.
type Explorer struct {
	fetcher  Fetcher
	store    *store.Store
	expander *expand.Expander
	layout   layout.Provider
	logger   *log.Logger

	mu     sync.Mutex
	filter graph.Filter
}

// New returns an explorer reading from f.
func New(f Fetcher, opts Options) *Explorer {
	e := &Explorer{
		fetcher:  f,
		store:    opts.Store,
		expander: opts.Expander,
		layout:   opts.Layout,
		logger:   opts.Logger,
		filter:   graph.DefaultFilter(),
	}
	if e.store == nil {
		e.store = store.New()
	}
	if e.expander == nil {
		e.expander = expand.New(nil)
	}
	if e.layout == nil {
		e.layout = layout.Static{}
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Store returns the graph store.
func (e *Explorer) Store() *store.Store { return e.store }

// Snapshot returns the current graph.
func (e *Explorer) Snapshot() *graph.Graph { return e.store.Snapshot() }

// Filter returns the filter of the last committed reload.
func (e *Explorer) Filter() graph.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Reload fetches the topic-level graph for f, lays it out and replaces the
// store contents. It reports false when a newer reload committed first and
// this result was dropped. On error the store is unchanged.
func (e *Explorer) Reload(ctx context.Context, f graph.Filter) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, err
	}
	hooks := observability.Explorer()
	hooks.OnReloadStart(ctx, f.String())
	start := time.Now()

	tok := e.store.BeginReload()
	g, err := e.fetcher.FetchGraph(ctx, f)
	if err != nil {
		hooks.OnReloadComplete(ctx, f.String(), 0, false, time.Since(start), err)
		e.logger.Warn("reload failed, keeping current graph", "filter", f.String(), "err", err)
		return false, err
	}
	if err := g.Validate(); err != nil {
		hooks.OnReloadComplete(ctx, f.String(), 0, false, time.Since(start), err)
		return false, err
	}
	e.runLayout(ctx, g)

	committed := e.store.CommitReload(tok, g)
	hooks.OnReloadComplete(ctx, f.String(), g.NodeCount(), !committed, time.Since(start), nil)
	if !committed {
		e.logger.Debug("stale reload dropped", "filter", f.String())
		return false, nil
	}

	e.mu.Lock()
	e.filter = f
	e.mu.Unlock()
	e.logger.Info("graph reloaded", "filter", f.String(), "topics", g.NodeCount())
	return true, nil
}

// Expand fetches the discoveries of a topic and merges them under it.
//
// Expanding an already expanded topic returns a Duplicate result without
// fetching. A fetch failure returns a TRANSPORT_ERROR and leaves the topic
// unexpanded. When a reload commits while the fetch is in flight the
// expansion is dropped and the Result has Dropped set.
func (e *Explorer) Expand(ctx context.Context, topicID string) (expand.Result, error) {
	hooks := observability.Explorer()
	hooks.OnExpandStart(ctx, topicID)
	start := time.Now()

	res, err := e.expand(ctx, topicID)
	hooks.OnExpandComplete(ctx, topicID, res.Added, time.Since(start), err)
	if err != nil {
		e.logger.Warn("expansion failed", "topic", topicID, "err", err)
		return res, err
	}
	switch {
	case res.Dropped:
		e.logger.Info("expansion dropped, graph was reloaded", "topic", topicID)
	case res.Duplicate:
		e.logger.Debug("topic already expanded", "topic", topicID)
	case res.Empty:
		e.logger.Info("topic has no discoveries", "topic", topicID)
	case res.Added == 0:
		e.logger.Warn("topic not expanded, every discovery collided", "topic", topicID, "labels", res.Collisions)
	default:
		e.logger.Info("topic expanded", "topic", topicID, "children", res.Added)
		if len(res.Collisions) > 0 {
			e.logger.Warn("skipped colliding discoveries", "topic", topicID, "labels", res.Collisions)
		}
	}
	return res, nil
}

func (e *Explorer) expand(ctx context.Context, topicID string) (expand.Result, error) {
	snap, gen := e.store.SnapshotAt()
	parent, ok := snap.Node(topicID)
	if !ok {
		return expand.Result{}, errors.New(errors.ErrCodeNotFound, "topic %q is not in the graph", topicID)
	}
	if !parent.Tier.Expandable() {
		return expand.Result{}, errors.New(errors.ErrCodeNotExpandable, "%s %q cannot be expanded", parent.Tier, parent.ID)
	}
	if snap.IsExpanded(topicID) {
		return expand.Result{Duplicate: true}, nil
	}

	ds, err := e.fetcher.FetchDiscoveries(ctx, topicID)
	if err != nil {
		return expand.Result{}, err
	}

	var res expand.Result
	applied, err := e.store.UpdateAt(gen, func(g *graph.Graph) (*graph.Graph, error) {
		// Re-resolve the parent: positions may have moved since the fetch.
		parent, ok := g.Node(topicID)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "topic %q is not in the graph", topicID)
		}
		next, r, err := e.expander.Expand(g, parent, ds)
		res = r
		if err != nil || !r.Changed() {
			return nil, err
		}
		e.runLayout(ctx, next)
		return next, nil
	})
	if err != nil {
		return expand.Result{}, err
	}
	if !applied {
		return expand.Result{Dropped: true}, nil
	}
	return res, nil
}

// ExpandAll expands topics concurrently, at most limit at a time. Results
// are returned in the order of topics; the first error cancels the rest.
func (e *Explorer) ExpandAll(ctx context.Context, topics []string, limit int) ([]expand.Result, error) {
	results := make([]expand.Result, len(topics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, t := range topics {
		g.Go(func() error {
			r, err := e.Expand(gctx, t)
			if err != nil {
				return fmt.Errorf("expand %s: %w", t, err)
			}
			results[i] = r
			return nil
		})
	}
	return results, g.Wait()
}

// Relayout runs the layout provider on the current graph in place.
func (e *Explorer) Relayout(ctx context.Context) {
	e.store.View(func(g *graph.Graph) { e.runLayout(ctx, g) })
}

// runLayout positions g. Layout failures are logged; the graph keeps its
// seeded positions.
func (e *Explorer) runLayout(ctx context.Context, g *graph.Graph) {
	start := time.Now()
	err := e.layout.Layout(ctx, g)
	observability.Explorer().OnLayoutComplete(ctx, engineName(e.layout), g.NodeCount(), time.Since(start), err)
	if err != nil {
		e.logger.Warn("layout failed, keeping seed positions", "nodes", g.NodeCount(), "err", err)
		return
	}
	e.logger.Debug("layout settled", "nodes", g.NodeCount(), "duration", time.Since(start))
}

func engineName(p layout.Provider) string {
	switch p := p.(type) {
	case *layout.Graphviz:
		return p.Engine
	case layout.Static, *layout.Static:
		return "static"
	default:
		return fmt.Sprintf("%T", p)
	}
}
