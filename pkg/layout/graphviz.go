package layout

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/discograph/pkg/graph"
)

// Supported Graphviz engines.
const (
	EngineFDP   = "fdp"
	EngineNeato = "neato"
)

const pointsPerInch = 72.0

// Graphviz lays out graphs with a Graphviz force engine. Node positions are
// read back from the "plain" output format. Pinned nodes are passed as
// fixed positions; free nodes start from their current position.
//
// A Graphviz value is safe for concurrent use; runs are serialized.
type Graphviz struct {
	// Engine is EngineFDP (default) or EngineNeato.
	Engine string

	// Size returns the diameter of a node in points. Nil uses 20 for
	// topics and 10 for discoveries.
	Size func(n *graph.Node) float64

	// Settler, when set, is called after every successful run.
	Settler Settler

	mu sync.Mutex
	gv *graphviz.Graphviz
}

// NewGraphviz returns a provider for engine. An empty engine selects fdp.
func NewGraphviz(engine string) (*Graphviz, error) {
	switch engine {
	case "":
		engine = EngineFDP
	case EngineFDP, EngineNeato:
	default:
		return nil, fmt.Errorf("unsupported layout engine %q", engine)
	}
	return &Graphviz{Engine: engine}, nil
}

// Layout implements Provider.
func (p *Graphviz) Layout(ctx context.Context, g *graph.Graph) error {
	if len(g.Nodes) == 0 {
		if p.Settler != nil {
			p.Settler.Settled(g)
		}
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gv == nil {
		gv, err := graphviz.New(ctx)
		if err != nil {
			return fmt.Errorf("init graphviz: %w", err)
		}
		p.gv = gv
	}

	gg, err := graphviz.ParseBytes([]byte(p.toDOT(g)))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer gg.Close()

	engine := p.Engine
	if engine == "" {
		engine = EngineFDP
	}
	p.gv.SetLayout(graphviz.Layout(engine))

	var buf bytes.Buffer
	if err := p.gv.Render(ctx, gg, graphviz.Format("plain"), &buf); err != nil {
		return fmt.Errorf("layout %s: %w", engine, err)
	}

	pos, err := ParsePlain(buf.Bytes())
	if err != nil {
		return err
	}
	if err := apply(g, pos); err != nil {
		return err
	}
	if p.Settler != nil {
		p.Settler.Settled(g)
	}
	return nil
}

// Close releases the Graphviz runtime.
func (p *Graphviz) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gv == nil {
		return nil
	}
	err := p.gv.Close()
	p.gv = nil
	return err
}

func (p *Graphviz) size(n *graph.Node) float64 {
	if p.Size != nil {
		return p.Size(n)
	}
	if n.IsTopic() {
		return 20
	}
	return 10
}

// toDOT writes positions in inches with the y axis pointing up, as Graphviz
// expects.
func (p *Graphviz) toDOT(g *graph.Graph) string {
	var buf strings.Builder
	buf.WriteString("graph G {\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, label=\"\"];\n\n")

	for _, n := range g.Nodes {
		d := p.size(n) / pointsPerInch
		attrs := fmt.Sprintf("width=%.4f, height=%.4f", d, d)
		switch {
		case n.Pinned():
			attrs += fmt.Sprintf(", pos=\"%.4f,%.4f!\"", *n.FX/pointsPerInch, -*n.FY/pointsPerInch)
		case n.X != 0 || n.Y != 0:
			attrs += fmt.Sprintf(", pos=\"%.4f,%.4f\"", n.X/pointsPerInch, -n.Y/pointsPerInch)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %q -- %q;\n", l.Source, l.Target)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// apply converts positions back to points and flips the y axis. Graphviz
// translates its output so the drawing starts at the origin; the shift is
// undone using the first pinned node, or otherwise by keeping the centroid
// of the previous positions.
func apply(g *graph.Graph, pos map[string]Point) error {
	conv := make(map[string]Point, len(pos))
	for id, p := range pos {
		conv[id] = Point{X: p.X * pointsPerInch, Y: -p.Y * pointsPerInch}
	}

	var dx, dy float64
	anchored := false
	for _, n := range g.Nodes {
		if !n.Pinned() {
			continue
		}
		if p, ok := conv[n.ID]; ok {
			dx, dy = *n.FX-p.X, *n.FY-p.Y
			anchored = true
			break
		}
	}
	if !anchored {
		var ox, oy, nx, ny float64
		for _, n := range g.Nodes {
			p := conv[n.ID]
			ox += n.X
			oy += n.Y
			nx += p.X
			ny += p.Y
		}
		c := float64(len(g.Nodes))
		dx, dy = (ox-nx)/c, (oy-ny)/c
	}

	for _, n := range g.Nodes {
		p, ok := conv[n.ID]
		if !ok {
			return fmt.Errorf("layout: no position for node %q", n.ID)
		}
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			continue
		}
		n.X, n.Y = p.X+dx, p.Y+dy
	}
	return nil
}
