package layout

import (
	"context"

	"github.com/matzehuels/discograph/pkg/graph"
)

// Provider writes X and Y for every node of g. Pinned nodes keep their
// FX/FY position.
type Provider interface {
	Layout(ctx context.Context, g *graph.Graph) error
}

// Settler is notified once a layout run has finished.
type Settler interface {
	Settled(g *graph.Graph)
}

// SettlerFunc adapts a function to [Settler].
type SettlerFunc func(g *graph.Graph)

// Settled implements Settler.
func (f SettlerFunc) Settled(g *graph.Graph) { f(g) }

// Static is a Provider that moves pinned nodes to their pin and leaves every
// other node where it is.
type Static struct {
	Settler Settler
}

// Layout implements Provider.
func (s Static) Layout(ctx context.Context, g *graph.Graph) error {
	for _, n := range g.Nodes {
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
		}
	}
	if s.Settler != nil {
		s.Settler.Settled(g)
	}
	return nil
}

// FitView records the padded bounding box of the last settled graph.
type FitView struct {
	Margin float64
	Box    graph.Box
}

// Settled implements Settler.
func (f *FitView) Settled(g *graph.Graph) {
	f.Box = g.Bounds().Pad(f.Margin)
}
