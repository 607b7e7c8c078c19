package render

import (
	"maps"
	"slices"
)

// Unsorted is the branch of topics without a hierarchy.
const Unsorted = "Unsorted"

// FallbackColor is used for branches missing from the palette.
const FallbackColor = "#888888"

// Palette maps a branch name to a CSS hex color.
type Palette map[string]string

// DefaultPalette returns the built-in branch colors. The backend's
// /colour endpoint serves the same table.
func DefaultPalette() Palette {
	return Palette{
		"Physics":       "#00bcd4",
		"Chemistry":     "#ff9800",
		"Biology":       "#4caf50",
		"Medicine":      "#e91e63",
		"Mathematics":   "#9c27b0",
		"Engineering":   "#3f51b5",
		"Technology":    "#009688",
		"Earth Science": "#795548",
		"History":       "#607d8b",
		Unsorted:        "#9e9e9e",
	}
}

// Color returns the color of branch, or [FallbackColor].
func (p Palette) Color(branch string) string {
	if c, ok := p[branch]; ok {
		return c
	}
	return FallbackColor
}

// Merge returns a copy of p with the entries of o added or replaced.
func (p Palette) Merge(o Palette) Palette {
	out := maps.Clone(p)
	if out == nil {
		out = Palette{}
	}
	maps.Copy(out, o)
	return out
}

// Branches returns the branch names in sorted order.
func (p Palette) Branches() []string {
	return slices.Sorted(maps.Keys(p))
}
