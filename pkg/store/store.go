// Package store holds the live graph.
//
// A [Store] is the single source of truth shared by the explorer, the
// layout provider and the renderer. Writers replace the whole graph value;
// readers get the last published snapshot. Node records are shared between
// snapshots, so only layout position fields may be written in place.
//
// Reloads are ordered by generation. [Store.BeginReload] hands out a
// [Token]; only the token of the most recent reload can commit. A slow
// response from an older filter is dropped instead of overwriting newer
// data.
package store

import (
	"sync"

	"github.com/matzehuels/discograph/pkg/graph"
)

// Token identifies one reload or one expansion by the generation it
// started under.
type Token uint64

// Listener is called after every publish with the new snapshot. Listeners
// run synchronously on the publishing goroutine, outside the store lock.
type Listener func(g *graph.Graph)

// Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	g         *graph.Graph
	gen       Token // latest reload started
	committed Token // generation of the current graph
	listeners []Listener
}

// New returns a store holding an empty graph.
func New() *Store {
	return &Store{g: graph.New()}
}

// Snapshot returns the current graph. Callers must not append to or
// reorder its sequences.
func (s *Store) Snapshot() *graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g
}

// SnapshotAt returns the current graph together with its generation, read
// under one lock.
func (s *Store) SnapshotAt() (*graph.Graph, Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g, s.committed
}

// Generation returns the generation of the published graph. Expansions
// capture it before fetching and pass it to [Store.UpdateAt].
func (s *Store) Generation() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// BeginReload starts a reload and returns its token. Any reload started
// earlier can no longer commit.
func (s *Store) BeginReload() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// CommitReload publishes g if tok belongs to the most recent reload.
// It returns false, leaving the store untouched, for a stale token.
func (s *Store) CommitReload(tok Token, g *graph.Graph) bool {
	s.mu.Lock()
	if tok != s.gen || tok <= s.committed {
		s.mu.Unlock()
		return false
	}
	if g == nil {
		g = graph.New()
	}
	s.g = g
	s.committed = tok
	ls := s.listeners
	s.mu.Unlock()

	notify(ls, g)
	return true
}

// Update replaces the graph with the result of fn, atomically with respect
// to other writers. fn receives the current graph and must not modify it;
// returning the same pointer or an error publishes nothing.
func (s *Store) Update(fn func(g *graph.Graph) (*graph.Graph, error)) error {
	_, err := s.update(0, false, fn)
	return err
}

// UpdateAt is Update guarded by a generation: when a reload committed
// after gen, fn is not called and UpdateAt returns false.
func (s *Store) UpdateAt(gen Token, fn func(g *graph.Graph) (*graph.Graph, error)) (bool, error) {
	return s.update(gen, true, fn)
}

func (s *Store) update(gen Token, guarded bool, fn func(*graph.Graph) (*graph.Graph, error)) (bool, error) {
	s.mu.Lock()
	if guarded && gen != s.committed {
		s.mu.Unlock()
		return false, nil
	}
	next, err := fn(s.g)
	if err != nil || next == nil || next == s.g {
		s.mu.Unlock()
		return true, err
	}
	s.g = next
	ls := s.listeners
	s.mu.Unlock()

	notify(ls, next)
	return true, nil
}

// View runs fn with the current graph while holding the store lock. Use it
// for reads that must not interleave with a position update, such as
// rendering a frame.
func (s *Store) View(fn func(g *graph.Graph)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.g)
}

// Subscribe registers fn for publish notifications.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func notify(ls []Listener, g *graph.Graph) {
	for _, l := range ls {
		l(g)
	}
}
