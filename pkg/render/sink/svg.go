package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/discograph/pkg/fonts"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/render"
)

// SVGSurface writes SVG elements. Glows are blurred copies of the filled
// path, one filter per blur radius.
type SVGSurface struct {
	render.Measurer

	body     bytes.Buffer
	path     strings.Builder
	glow     string
	blur     float64
	filters  []float64
	inAnchor bool
}

// NewSVGSurface returns a surface measuring text with m.
func NewSVGSurface(m render.Measurer) *SVGSurface {
	if m == nil {
		m = render.NewFontMeasurer()
	}
	return &SVGSurface{Measurer: m}
}

func (s *SVGSurface) MoveTo(x, y float64) { fmt.Fprintf(&s.path, "M%.2f %.2f", x, y) }
func (s *SVGSurface) LineTo(x, y float64) { fmt.Fprintf(&s.path, "L%.2f %.2f", x, y) }
func (s *SVGSurface) ClosePath()          { s.path.WriteString("Z") }

func (s *SVGSurface) SetGlow(color string, blur float64) {
	s.glow, s.blur = color, blur
	if blur > 0 && !slices.Contains(s.filters, blur) {
		s.filters = append(s.filters, blur)
	}
}

func (s *SVGSurface) Fill(color string) {
	d := s.path.String()
	s.path.Reset()
	if s.blur > 0 && s.glow != "" {
		fmt.Fprintf(&s.body, `  <path d="%s" fill="%s" filter="url(#%s)"/>`+"\n", d, escape(s.glow), filterID(s.blur))
	}
	fmt.Fprintf(&s.body, `  <path d="%s" fill="%s"/>`+"\n", d, escape(color))
}

func (s *SVGSurface) Stroke(color string, width float64) {
	d := s.path.String()
	s.path.Reset()
	fmt.Fprintf(&s.body, `  <path d="%s" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n", d, escape(color), width)
}

func (s *SVGSurface) Text(str string, x, y, size float64, color string) {
	if str == "" {
		return
	}
	fmt.Fprintf(&s.body, `  <text x="%.2f" y="%.2f" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		x, y, size, escape(color), escape(str))
}

// BeginNode implements Grouper.
func (s *SVGSurface) BeginNode(id, tooltip, url string) {
	s.inAnchor = url != ""
	if s.inAnchor {
		fmt.Fprintf(&s.body, `  <a href="%s" target="_blank">`+"\n", escape(url))
	}
	fmt.Fprintf(&s.body, `  <g id="node-%s">`+"\n", escape(id))
	if tooltip != "" {
		fmt.Fprintf(&s.body, "  <title>%s</title>\n", escape(tooltip))
	}
}

// EndNode implements Grouper.
func (s *SVGSurface) EndNode() {
	s.body.WriteString("  </g>\n")
	if s.inAnchor {
		s.body.WriteString("  </a>\n")
		s.inAnchor = false
	}
}

// document wraps the drawn elements in an <svg> document for box.
func (s *SVGSurface) document(box graph.Box, scale float64, background string) []byte {
	var buf bytes.Buffer
	w, h := box.Width(), box.Height()
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		box.MinX, box.MinY, w, h, w*scale, h*scale, escape(fonts.FallbackFontFamily))

	if len(s.filters) > 0 {
		buf.WriteString("  <defs>\n")
		for _, b := range s.filters {
			// Canvas shadowBlur is roughly twice the Gaussian deviation.
			fmt.Fprintf(&buf, `    <filter id="%s" x="-500%%" y="-500%%" width="1100%%" height="1100%%"><feGaussianBlur stdDeviation="%.2f"/></filter>`+"\n",
				filterID(b), b/2)
		}
		buf.WriteString("  </defs>\n")
	}
	if background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			box.MinX, box.MinY, w, h, escape(background))
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func filterID(blur float64) string {
	return strings.ReplaceAll(fmt.Sprintf("glow-%g", blur), ".", "_")
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// RenderSVG draws g as an SVG document framed to the graph bounds.
func RenderSVG(g *graph.Graph, p *render.Policy, opts ...Option) []byte {
	o := newOptions(opts...)
	s := NewSVGSurface(p.Measurer())
	Draw(s, g, p, o.linkColor, o.linkWidth)
	return s.document(frame(g, p, o), o.scale, p.Config().Background)
}
