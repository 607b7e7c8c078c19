package render

import (
	"strconv"

	"github.com/matzehuels/discograph/pkg/graph"
)

// Visual is everything a surface needs to draw one node.
type Visual struct {
	ShapeSize float64
	Color     string
	Glow      bool
	GlowColor string
	GlowBlur  float64
	Label     string
	Tooltip   string
	FontSize  float64
}

// tierStyle holds the per-tier rules. Adding a tier means adding an entry
// to tierStyles.
type tierStyle struct {
	fontSize  func(c *Config) float64
	maxWidth  func(c *Config) float64
	shapeSize func(p *Policy, n *graph.Node) float64
	hitSize   func(p *Policy, n *graph.Node) float64
	tooltip   func(n *graph.Node) string
	glow      bool
}

var tierStyles = map[graph.Tier]tierStyle{
	graph.TierTopic: {
		fontSize: func(c *Config) float64 { return c.FontSizeTopic },
		maxWidth: func(c *Config) float64 { return c.MaxLabelWidthTopic },
		shapeSize: func(p *Policy, n *graph.Node) float64 {
			return min(p.cfg.HexSizeTopic, p.topicGrowth(n))
		},
		hitSize: func(p *Policy, n *graph.Node) float64 {
			return min(p.cfg.HitSizeTopic, p.topicGrowth(n))
		},
		tooltip: func(n *graph.Node) string { return n.DisplayLabel() },
		glow:    true,
	},
	graph.TierDiscovery: {
		fontSize:  func(c *Config) float64 { return c.FontSizeDiscovery },
		maxWidth:  func(c *Config) float64 { return c.MaxLabelWidthDiscovery },
		shapeSize: func(p *Policy, _ *graph.Node) float64 { return p.cfg.HexSizeDiscovery },
		hitSize:   func(p *Policy, _ *graph.Node) float64 { return p.cfg.HexSizeDiscovery },
		tooltip:   discoveryTooltip,
	},
}

// styleFor falls back to the discovery style for unknown tiers, so deeper
// levels render as plain leaves.
func styleFor(t graph.Tier) tierStyle {
	if s, ok := tierStyles[t]; ok {
		return s
	}
	return tierStyles[graph.TierDiscovery]
}

func discoveryTooltip(n *graph.Node) string {
	year := "n/a"
	if n.Year != nil {
		year = strconv.Itoa(*n.Year)
	}
	return n.DisplayLabel() + " (" + year + ")"
}

// Policy computes node visuals from a Config and a Measurer.
type Policy struct {
	cfg Config
	m   Measurer
}

// NewPolicy returns a Policy. A nil measurer defaults to [FontMeasurer];
// a nil palette to [DefaultPalette].
func NewPolicy(cfg Config, m Measurer) *Policy {
	if m == nil {
		m = NewFontMeasurer()
	}
	if cfg.Palette == nil {
		cfg.Palette = DefaultPalette()
	}
	return &Policy{cfg: cfg, m: m}
}

// Config returns the policy's configuration.
func (p *Policy) Config() Config { return p.cfg }

// Measurer returns the measurer used for labels.
func (p *Policy) Measurer() Measurer { return p.m }

// Compute returns the visual for n. It measures on every call.
func (p *Policy) Compute(n *graph.Node) Visual {
	s := styleFor(n.Tier)
	size := s.fontSize(&p.cfg)
	color := p.cfg.Palette.Color(n.Branch)

	v := Visual{
		ShapeSize: s.shapeSize(p, n),
		Color:     color,
		Label:     Truncate(p.m, n.DisplayLabel(), size, s.maxWidth(&p.cfg)),
		Tooltip:   s.tooltip(n),
		FontSize:  size,
	}
	if s.glow {
		v.Glow = true
		v.GlowColor = color
		v.GlowBlur = p.cfg.GlowBlur
	}
	return v
}

// HitSize returns the hexagon size used for pointer hit testing. Topic hit
// areas are capped at Config.HitSizeTopic so large topics do not swallow
// clicks meant for their discoveries.
func (p *Policy) HitSize(n *graph.Node) float64 {
	return styleFor(n.Tier).hitSize(p, n)
}

func (p *Policy) topicGrowth(n *graph.Node) float64 {
	w := p.m.MeasureText(n.DisplayLabel(), p.cfg.FontSizeTopic)
	return p.cfg.TopicBaseSize + w*p.cfg.TopicGrowth
}
