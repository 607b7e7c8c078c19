package graph

import "github.com/matzehuels/discograph/pkg/errors"

// Validate checks the structural invariants of the graph and returns the
// first violation as an INVALID_GRAPH error.
func (g *Graph) Validate() error {
	byID := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if n == nil {
			return errors.New(errors.ErrCodeInvalidGraph, "nil node")
		}
		if _, dup := byID[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		byID[n.ID] = n
	}

	// Links from one source must form a single contiguous run; a second run
	// means the topic was expanded twice.
	closed := make(map[string]bool)
	prev := ""
	for i, l := range g.Links {
		src, ok := byID[l.Source]
		if !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "link %d: unknown source %q", i, l.Source)
		}
		if !src.IsTopic() {
			return errors.New(errors.ErrCodeInvalidGraph, "link %d: source %q is a %s", i, l.Source, src.Tier)
		}
		dst, ok := byID[l.Target]
		if !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "link %d: unknown target %q", i, l.Target)
		}
		if !dst.IsDiscovery() {
			return errors.New(errors.ErrCodeInvalidGraph, "link %d: target %q is a %s", i, l.Target, dst.Tier)
		}
		if dst.ParentID != l.Source {
			return errors.New(errors.ErrCodeInvalidGraph, "link %d: target %q has parent %q, want %q", i, l.Target, dst.ParentID, l.Source)
		}
		if l.Source != prev {
			if closed[l.Source] {
				return errors.New(errors.ErrCodeInvalidGraph, "topic %q expanded more than once", l.Source)
			}
			if prev != "" {
				closed[prev] = true
			}
			prev = l.Source
		}
	}
	return nil
}
