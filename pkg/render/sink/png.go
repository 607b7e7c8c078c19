package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/discograph/pkg/fonts"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/render"
)

// glowSteps is the number of translucent rings used to fake a blur.
const glowSteps = 12

// PNGSurface draws onto a gg context. Layout coordinates are mapped into
// the frame box and scaled. gg has no blur, so glows are drawn as a stack
// of growing translucent copies of the filled path.
type PNGSurface struct {
	dc    *gg.Context
	box   graph.Box
	scale float64

	pts   [][2]float64
	glow  string
	blur  float64
	faces map[float64]font.Face
}

// NewPNGSurface allocates a canvas covering box at scale pixels per unit.
func NewPNGSurface(box graph.Box, scale float64) *PNGSurface {
	w := max(1, int(math.Ceil(box.Width()*scale)))
	h := max(1, int(math.Ceil(box.Height()*scale)))
	return &PNGSurface{
		dc:    gg.NewContext(w, h),
		box:   box,
		scale: scale,
		faces: make(map[float64]font.Face),
	}
}

// Background fills the whole canvas.
func (s *PNGSurface) Background(hex string) {
	s.dc.SetColor(parseHex(hex))
	s.dc.Clear()
}

func (s *PNGSurface) px(x, y float64) (float64, float64) {
	return (x - s.box.MinX) * s.scale, (y - s.box.MinY) * s.scale
}

func (s *PNGSurface) face(size float64) font.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f, err := fonts.NewFace(size)
	if err != nil {
		return nil
	}
	s.faces[size] = f
	return f
}

// MeasureText implements render.Measurer in layout units.
func (s *PNGSurface) MeasureText(text string, size float64) float64 {
	f := s.face(size)
	if f == nil {
		return 0
	}
	s.dc.SetFontFace(f)
	w, _ := s.dc.MeasureString(text)
	return w
}

func (s *PNGSurface) MoveTo(x, y float64) {
	s.pts = s.pts[:0]
	s.pts = append(s.pts, [2]float64{x, y})
	s.dc.MoveTo(s.px(x, y))
}

func (s *PNGSurface) LineTo(x, y float64) {
	s.pts = append(s.pts, [2]float64{x, y})
	s.dc.LineTo(s.px(x, y))
}

func (s *PNGSurface) ClosePath() { s.dc.ClosePath() }

func (s *PNGSurface) SetGlow(color string, blur float64) { s.glow, s.blur = color, blur }

func (s *PNGSurface) Fill(hex string) {
	if s.glow != "" && s.blur > 0 && len(s.pts) > 2 {
		s.dc.ClearPath()
		s.drawGlow()
		s.tracePath(0)
	}
	s.dc.SetColor(parseHex(hex))
	s.dc.Fill()
}

func (s *PNGSurface) Stroke(hex string, width float64) {
	s.dc.SetColor(parseHex(hex))
	s.dc.SetLineWidth(width * s.scale)
	s.dc.Stroke()
}

func (s *PNGSurface) Text(str string, x, y, size float64, hex string) {
	if str == "" {
		return
	}
	f := s.face(size * s.scale)
	if f == nil {
		return
	}
	s.dc.SetFontFace(f)
	s.dc.SetColor(parseHex(hex))
	px, py := s.px(x, y)
	s.dc.DrawStringAnchored(str, px, py, 0.5, 0.35)
}

// drawGlow fills copies of the recorded path pushed outward by up to half
// the blur radius, outermost first.
func (s *PNGSurface) drawGlow() {
	c := parseHex(s.glow)
	layer := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x0d}
	for i := glowSteps; i >= 1; i-- {
		s.tracePath(s.blur / 2 * float64(i) / glowSteps)
		s.dc.SetColor(layer)
		s.dc.Fill()
	}
}

// tracePath replays the recorded path grown by offset around its centroid.
func (s *PNGSurface) tracePath(offset float64) {
	var cx, cy float64
	for _, p := range s.pts {
		cx += p[0]
		cy += p[1]
	}
	cx /= float64(len(s.pts))
	cy /= float64(len(s.pts))

	for i, p := range s.pts {
		dx, dy := p[0]-cx, p[1]-cy
		r := math.Hypot(dx, dy)
		k := 1.0
		if r > 0 {
			k = (r + offset) / r
		}
		x, y := s.px(cx+dx*k, cy+dy*k)
		if i == 0 {
			s.dc.MoveTo(x, y)
		} else {
			s.dc.LineTo(x, y)
		}
	}
	s.dc.ClosePath()
}

// Encode writes the canvas as PNG.
func (s *PNGSurface) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG draws g as a PNG image framed to the graph bounds. Labels are
// measured with the surface's own font faces.
func RenderPNG(g *graph.Graph, p *render.Policy, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	box := frame(g, p, o)
	s := NewPNGSurface(box, o.scale)
	if bg := p.Config().Background; bg != "" {
		s.Background(bg)
	}
	Draw(s, g, render.NewPolicy(p.Config(), s), o.linkColor, o.linkWidth)
	return s.Encode()
}
