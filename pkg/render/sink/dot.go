package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/render"
)

// RenderDOT converts g to Graphviz DOT. Every node is pinned at its layout
// position, so engines that honor pins (neato, fdp) reproduce the layout.
// Hexagons, colors, labels and tooltips come from p.
func RenderDOT(g *graph.Graph, p *render.Policy) string {
	cfg := p.Config()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", cfg.Background)
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=hexagon, style=filled, fixedsize=true, penwidth=0, fontname=\"Helvetica\", fontcolor=%q];\n", cfg.LabelColor)
	buf.WriteString("  edge [color=\"#555555\", penwidth=0.5];\n\n")

	for _, n := range g.Nodes {
		v := p.Compute(n)
		attrs := []string{
			fmt.Sprintf("label=%q", v.Label),
			fmt.Sprintf("tooltip=%q", v.Tooltip),
			fmt.Sprintf("fillcolor=%q", v.Color),
			fmt.Sprintf("fontsize=%.1f", v.FontSize),
			fmt.Sprintf("width=%.4f", 2*v.ShapeSize/72),
			fmt.Sprintf("height=%.4f", 2*v.ShapeSize/72),
			fmt.Sprintf("pos=\"%.4f,%.4f!\"", n.X/72, -n.Y/72),
		}
		if n.URL != "" {
			attrs = append(attrs, fmt.Sprintf("URL=%q", n.URL))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %q -- %q;\n", l.Source, l.Target)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraphvizSVG draws DOT produced by [RenderDOT] with the neato engine,
// which keeps the pinned positions.
func RenderGraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)
	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
