// Package render decides how each node of the knowledge graph looks.
//
// # Overview
//
// [Policy.Compute] maps a node to a [Visual]: hexagon size, fill color,
// glow, the label drawn inside the hexagon, the tooltip and the font size.
// The decision is per tier and table driven, so a new tier only needs a new
// style entry.
//
// Topic hexagons grow with the width of their label, up to a cap:
//
//	size = min(HexSizeTopic, TopicBaseSize + width(label)*TopicGrowth)
//
// Discovery hexagons have a fixed size. Labels are shortened one character
// at a time until they fit the tier's maximum width and then get an
// ellipsis.
//
// # Measurement
//
// Widths come from a [Measurer]. [FontMeasurer] measures with the Go
// Regular outlines; the PNG surface in [sink] measures with its own font
// face. Measurements are never cached because the font size may change
// between frames.
//
// # Drawing
//
// The [sink] subpackage draws computed visuals onto PNG and SVG surfaces
// and exports DOT through Graphviz.
//
// [sink]: github.com/matzehuels/discograph/pkg/render/sink
package render
