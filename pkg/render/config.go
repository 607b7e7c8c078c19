package render

import "github.com/matzehuels/discograph/pkg/errors"

// Config holds the visual constants of the renderer.
type Config struct {
	HexSizeTopic      float64 `toml:"hex_size_topic"`
	HexSizeDiscovery  float64 `toml:"hex_size_discovery"`
	GlowBlur          float64 `toml:"glow_blur"`
	FontSizeTopic     float64 `toml:"font_size_topic"`
	FontSizeDiscovery float64 `toml:"font_size_discovery"`

	// Topic hexagon growth: base + label width * growth.
	TopicBaseSize float64 `toml:"topic_base_size"`
	TopicGrowth   float64 `toml:"topic_growth"`

	// Maximum label widths before truncation.
	MaxLabelWidthTopic     float64 `toml:"max_label_width_topic"`
	MaxLabelWidthDiscovery float64 `toml:"max_label_width_discovery"`

	// HitSizeTopic caps the pointer area of topic hexagons.
	HitSizeTopic float64 `toml:"hit_size_topic"`

	LabelColor string  `toml:"label_color"`
	Background string  `toml:"background"`
	Palette    Palette `toml:"-"`
}

// DefaultConfig returns the standard look.
func DefaultConfig() Config {
	return Config{
		HexSizeTopic:           200,
		HexSizeDiscovery:       10,
		GlowBlur:               300,
		FontSizeTopic:          10,
		FontSizeDiscovery:      6,
		TopicBaseSize:          10,
		TopicGrowth:            0.35,
		MaxLabelWidthTopic:     70,
		MaxLabelWidthDiscovery: 40,
		HitSizeTopic:           70,
		LabelColor:             "#ffffff",
		Background:             "#111111",
		Palette:                DefaultPalette(),
	}
}

// Validate rejects sizes that would make hexagons or labels disappear.
func (c Config) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"hex_size_topic", c.HexSizeTopic},
		{"hex_size_discovery", c.HexSizeDiscovery},
		{"font_size_topic", c.FontSizeTopic},
		{"font_size_discovery", c.FontSizeDiscovery},
		{"max_label_width_topic", c.MaxLabelWidthTopic},
		{"max_label_width_discovery", c.MaxLabelWidthDiscovery},
	}
	for _, ch := range checks {
		if ch.v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "render.%s must be positive, got %v", ch.name, ch.v)
		}
	}
	if c.GlowBlur < 0 || c.TopicGrowth < 0 || c.TopicBaseSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render glow and growth settings must not be negative")
	}
	return nil
}
