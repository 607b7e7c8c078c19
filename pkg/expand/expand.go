package expand

import (
	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/layout"
)

// Result describes what an expansion did.
type Result struct {
	// Added is the number of discoveries appended.
	Added int

	// Duplicate is set when the topic already had children.
	Duplicate bool

	// Empty is set when the fetch returned no discoveries.
	Empty bool

	// Collisions lists labels skipped because their ID already existed.
	Collisions []string

	// Dropped is set by callers that discard the merge because the graph
	// was replaced while the discoveries were fetched.
	Dropped bool
}

// Changed reports whether the expansion produced a new graph.
func (r Result) Changed() bool { return r.Added > 0 }

// Expander merges discoveries into a graph, seeding child positions with
// Placer.
type Expander struct {
	Placer *layout.Placer
}

// New returns an Expander using placer, or the default ring parameters when
// placer is nil.
func New(placer *layout.Placer) *Expander {
	if placer == nil {
		placer = layout.NewPlacer()
	}
	return &Expander{Placer: placer}
}

// Expand appends one discovery node and one link per fetched entry under
// parent. The parent's current position is the center of the seed ring.
//
// When nothing is added (duplicate, empty or all entries colliding) g is
// returned as is. Otherwise the returned graph is a new value and g is
// unchanged.
func (e *Expander) Expand(g *graph.Graph, parent *graph.Node, fetched []graph.Discovery) (*graph.Graph, Result, error) {
	var res Result
	if g == nil || parent == nil {
		return g, res, errors.New(errors.ErrCodeInvalidInput, "expand: nil graph or parent")
	}
	if !parent.Tier.Expandable() {
		return g, res, errors.New(errors.ErrCodeNotExpandable, "%s %q cannot be expanded", parent.Tier, parent.ID)
	}
	if _, ok := g.Node(parent.ID); !ok {
		return g, res, errors.New(errors.ErrCodeNotFound, "topic %q is not in the graph", parent.ID)
	}
	if len(fetched) == 0 {
		res.Empty = true
		return g, res, nil
	}
	if g.IsExpanded(parent.ID) {
		res.Duplicate = true
		return g, res, nil
	}

	seen := make(map[string]bool, len(g.Nodes)+len(fetched))
	for _, n := range g.Nodes {
		seen[n.ID] = true
	}
	accepted := make([]graph.Discovery, 0, len(fetched))
	ids := make([]string, 0, len(fetched))
	for _, d := range fetched {
		id := graph.ChildID(parent.ID, d.Name)
		if seen[id] {
			res.Collisions = append(res.Collisions, d.Name)
			continue
		}
		seen[id] = true
		accepted = append(accepted, d)
		ids = append(ids, id)
	}
	if len(accepted) == 0 {
		return g, res, nil
	}

	placer := e.Placer
	if placer == nil {
		placer = layout.NewPlacer()
	}
	pts := placer.Place(parent.X, parent.Y, len(accepted))

	out := &graph.Graph{
		Nodes: make([]*graph.Node, len(g.Nodes), len(g.Nodes)+len(accepted)),
		Links: make([]graph.Link, len(g.Links), len(g.Links)+len(accepted)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Links, g.Links)

	for i, d := range accepted {
		child := &graph.Node{
			ID:       ids[i],
			Tier:     graph.TierDiscovery,
			ParentID: parent.ID,
			Label:    d.Name,
			Year:     copyYear(d.Year),
			URL:      d.URL,
			Branch:   parent.Branch,
		}
		child.Pin(pts[i].X, pts[i].Y)
		out.Nodes = append(out.Nodes, child)
		out.Links = append(out.Links, graph.Link{Source: parent.ID, Target: child.ID})
	}
	res.Added = len(accepted)
	return out, res, nil
}

func copyYear(y *int) *int {
	if y == nil {
		return nil
	}
	v := *y
	return &v
}
