package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
)

// fixedWidth measures every rune as size/2 pixels wide.
var fixedWidth = MeasurerFunc(func(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size / 2
})

func year(v int) *int { return &v }

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		maxWidth float64
		want     string
	}{
		{"fits", "Laser", 50, "Laser"},
		{"exact fit", "Laser", 25, "Laser"},
		{"trimmed", "General relativity", 25, "Gener…"},
		{"nothing fits", "Laser", 4, "…"},
		{"empty", "", 10, ""},
		{"multibyte", "Schrödinger equation", 30, "Schröd…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(fixedWidth, tt.label, 10, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %v) = %q, want %q", tt.label, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateRoundTrip(t *testing.T) {
	labels := []string{"Photoelectric effect", "DNA", "Penicillin discovery", "Ω", "Theory of plate tectonics"}
	for _, label := range labels {
		for _, maxW := range []float64{0, 5, 12, 30, 70, 200} {
			got := Truncate(fixedWidth, label, 6, maxW)
			if got == label {
				if w := fixedWidth.MeasureText(label, 6); w > maxW {
					t.Errorf("%q returned untrimmed at width %v > %v", label, w, maxW)
				}
				continue
			}
			prefix, ok := strings.CutSuffix(got, Ellipsis)
			if !ok {
				t.Fatalf("%q → %q lacks ellipsis", label, got)
			}
			if !strings.HasPrefix(label, prefix) {
				t.Errorf("%q → %q is not a prefix", label, got)
			}
			if w := fixedWidth.MeasureText(prefix, 6); w > maxW {
				t.Errorf("%q → %q still too wide (%v > %v)", label, got, w, maxW)
			}
			next := []rune(label)[:utf8.RuneCountInString(prefix)+1]
			if w := fixedWidth.MeasureText(string(next), 6); w <= maxW {
				t.Errorf("%q → %q trimmed too much", label, got)
			}
		}
	}
}

func TestComputeTopic(t *testing.T) {
	p := NewPolicy(DefaultConfig(), fixedWidth)

	// 6 runes at 10px → width 30 → 10 + 30*0.35 = 20.5
	v := p.Compute(&graph.Node{ID: "Optics", Label: "Optics", Branch: "Physics"})
	if v.ShapeSize != 20.5 {
		t.Errorf("ShapeSize = %v, want 20.5", v.ShapeSize)
	}
	if v.Color != "#00bcd4" || !v.Glow || v.GlowColor != "#00bcd4" || v.GlowBlur != 300 {
		t.Errorf("color/glow = %+v", v)
	}
	if v.Label != "Optics" || v.Tooltip != "Optics" || v.FontSize != 10 {
		t.Errorf("label = %+v", v)
	}
}

func TestComputeTopicCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HexSizeTopic = 40
	p := NewPolicy(cfg, fixedWidth)

	n := &graph.Node{ID: "x", Label: strings.Repeat("a", 100), Branch: "History"}
	v := p.Compute(n)
	if v.ShapeSize != 40 {
		t.Errorf("ShapeSize = %v, want cap 40", v.ShapeSize)
	}
	if !strings.HasSuffix(v.Label, Ellipsis) {
		t.Errorf("long label not truncated: %q", v.Label)
	}
	if h := p.HitSize(n); h != 70 {
		t.Errorf("HitSize = %v, want 70", h)
	}
}

func TestComputeDiscovery(t *testing.T) {
	p := NewPolicy(DefaultConfig(), fixedWidth)

	tests := []struct {
		name        string
		node        *graph.Node
		wantTooltip string
		wantLabel   string
	}{
		{
			name:        "with year",
			node:        &graph.Node{ID: "a::Laser", Tier: graph.TierDiscovery, Label: "Laser", Year: year(1960), Branch: "Physics"},
			wantTooltip: "Laser (1960)",
			wantLabel:   "Laser",
		},
		{
			name:        "without year",
			node:        &graph.Node{ID: "a::Fire", Tier: graph.TierDiscovery, Label: "Control of fire", Branch: "History"},
			wantTooltip: "Control of fire (n/a)",
			wantLabel:   "Control of fi…",
		},
		{
			name:        "year zero",
			node:        &graph.Node{ID: "a::Wheel", Tier: graph.TierDiscovery, Label: "Wheel", Year: year(0)},
			wantTooltip: "Wheel (0)",
			wantLabel:   "Wheel",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := p.Compute(tt.node)
			if v.Tooltip != tt.wantTooltip {
				t.Errorf("Tooltip = %q, want %q", v.Tooltip, tt.wantTooltip)
			}
			if v.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", v.Label, tt.wantLabel)
			}
			if v.ShapeSize != 10 || v.Glow || v.FontSize != 6 {
				t.Errorf("visual = %+v", v)
			}
		})
	}
}

func TestComputeFallbackColor(t *testing.T) {
	p := NewPolicy(DefaultConfig(), fixedWidth)
	v := p.Compute(&graph.Node{ID: "x", Label: "x", Branch: "Alchemy"})
	if v.Color != FallbackColor {
		t.Errorf("Color = %q, want %q", v.Color, FallbackColor)
	}
}

func TestComputeUnknownTier(t *testing.T) {
	p := NewPolicy(DefaultConfig(), fixedWidth)
	v := p.Compute(&graph.Node{ID: "x", Tier: graph.Tier(2), Label: "deep"})
	if v.ShapeSize != 10 || v.Glow {
		t.Errorf("unknown tier should render as a leaf: %+v", v)
	}
}

func TestComputeMeasuresEveryCall(t *testing.T) {
	calls := 0
	m := MeasurerFunc(func(text string, size float64) float64 {
		calls++
		return fixedWidth(text, size)
	})
	p := NewPolicy(DefaultConfig(), m)
	n := &graph.Node{ID: "x", Label: "Optics"}

	p.Compute(n)
	first := calls
	p.Compute(n)
	if calls != 2*first {
		t.Errorf("second Compute made %d measurements, want %d", calls-first, first)
	}
}

func TestHitSize(t *testing.T) {
	p := NewPolicy(DefaultConfig(), fixedWidth)
	if h := p.HitSize(&graph.Node{ID: "a", Label: "Optics"}); h != 20.5 {
		t.Errorf("small topic HitSize = %v, want 20.5", h)
	}
	big := &graph.Node{ID: "b", Label: strings.Repeat("w", 60)}
	if h := p.HitSize(big); h != 70 {
		t.Errorf("large topic HitSize = %v, want 70", h)
	}
	if h := p.HitSize(&graph.Node{ID: "c", Tier: graph.TierDiscovery}); h != 10 {
		t.Errorf("discovery HitSize = %v, want 10", h)
	}
}

func TestFontMeasurer(t *testing.T) {
	m := NewFontMeasurer()
	short := m.MeasureText("Lens", 10)
	long := m.MeasureText("Gravitational lensing", 10)
	if short <= 0 || long <= short {
		t.Errorf("widths: short=%v long=%v", short, long)
	}
	if m.MeasureText("", 10) != 0 {
		t.Error("empty string should measure zero")
	}
	if big := m.MeasureText("Lens", 20); big <= short {
		t.Errorf("larger size should be wider: %v <= %v", big, short)
	}
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()
	if p.Color("Earth Science") != "#795548" {
		t.Errorf("Earth Science = %q", p.Color("Earth Science"))
	}
	if p.Color(Unsorted) != "#9e9e9e" {
		t.Errorf("Unsorted = %q", p.Color(Unsorted))
	}
	m := p.Merge(Palette{"Physics": "#ffffff", "Astronomy": "#000000"})
	if m.Color("Physics") != "#ffffff" || m.Color("Astronomy") != "#000000" {
		t.Errorf("Merge = %v", m)
	}
	if p.Color("Physics") != "#00bcd4" {
		t.Error("Merge should not modify the receiver")
	}
	if b := p.Branches(); len(b) != 10 || b[0] != "Biology" {
		t.Errorf("Branches = %v", b)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	c := DefaultConfig()
	c.FontSizeDiscovery = 0
	if err := c.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
	}
}
