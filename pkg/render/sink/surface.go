package sink

import (
	"math"

	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/render"
)

// Surface is a drawing target in layout coordinates.
type Surface interface {
	render.Measurer

	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()

	// Fill fills the current path and clears it.
	Fill(color string)
	// Stroke strokes the current path and clears it.
	Stroke(color string, width float64)

	// SetGlow makes subsequent fills cast a glow of the given color and blur
	// radius. A zero blur turns the glow off.
	SetGlow(color string, blur float64)

	// Text draws s centered on (x, y).
	Text(s string, x, y, size float64, color string)
}

// Grouper is implemented by surfaces that can attach a tooltip and a link
// to everything drawn for one node.
type Grouper interface {
	BeginNode(id, tooltip, url string)
	EndNode()
}

// DrawHex draws a pointy-top hexagon of circumradius size centered on the
// node's current position. A non-empty glow color adds a glow of radius blur.
func DrawHex(s Surface, n *graph.Node, size float64, fill, glow string, blur float64) {
	x, y := n.X, n.Y
	if glow != "" && blur > 0 {
		s.SetGlow(glow, blur)
		defer s.SetGlow("", 0)
	}
	for i := range 6 {
		a := math.Pi/3*float64(i) + math.Pi/6
		px, py := x+size*math.Cos(a), y+size*math.Sin(a)
		if i == 0 {
			s.MoveTo(px, py)
		} else {
			s.LineTo(px, py)
		}
	}
	s.ClosePath()
	s.Fill(fill)
}

// Draw paints g onto s: links first, then every node in graph order with
// its label on top.
func Draw(s Surface, g *graph.Graph, p *render.Policy, linkColor string, linkWidth float64) {
	byID := make(map[string]*graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	for _, l := range g.Links {
		src, dst := byID[l.Source], byID[l.Target]
		if src == nil || dst == nil {
			continue
		}
		s.MoveTo(src.X, src.Y)
		s.LineTo(dst.X, dst.Y)
		s.Stroke(linkColor, linkWidth)
	}

	cfg := p.Config()
	grouper, _ := s.(Grouper)
	for _, n := range g.Nodes {
		v := p.Compute(n)
		if grouper != nil {
			grouper.BeginNode(n.ID, v.Tooltip, n.URL)
		}
		glow := ""
		if v.Glow {
			glow = v.GlowColor
		}
		DrawHex(s, n, v.ShapeSize, v.Color, glow, v.GlowBlur)
		s.Text(v.Label, n.X, n.Y, v.FontSize, cfg.LabelColor)
		if grouper != nil {
			grouper.EndNode()
		}
	}
}

// frame returns the visible region: the explicit box, or the graph bounds
// padded by the margin and the largest hexagon.
func frame(g *graph.Graph, p *render.Policy, o options) graph.Box {
	if o.box != nil {
		return *o.box
	}
	maxSize := 0.0
	for _, n := range g.Nodes {
		maxSize = max(maxSize, p.Compute(n).ShapeSize)
	}
	return g.Bounds().Pad(o.margin + maxSize)
}
