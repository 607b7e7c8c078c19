// Package sink draws a laid-out knowledge graph.
//
// # Overview
//
// A "sink" turns a graph with positions into a final output format:
//
//   - SVG: vector output with tooltips and links ([RenderSVG])
//   - PNG: raster output drawn with fogleman/gg ([RenderPNG])
//   - DOT: Graphviz source with pinned positions ([RenderDOT]), which
//     [RenderGraphvizSVG] turns into Graphviz-drawn SVG
//
// SVG and PNG share one drawing routine, [Draw], written against the
// [Surface] interface: text measurement plus a small path API. Each node is
// a hexagon drawn by [DrawHex], sized and colored by [render.Policy].
//
// Basic usage:
//
//	policy := render.NewPolicy(render.DefaultConfig(), nil)
//	svg := sink.RenderSVG(g, policy, sink.WithMargin(40))
//	png, err := sink.RenderPNG(g, policy, sink.WithScale(2))
//
// # Options
//
//   - [WithBox]: frame to draw, usually the fit-view box of the layout
//   - [WithMargin]: padding around the graph bounds when no box is given
//   - [WithScale]: output pixels per layout unit
//   - [WithLinkColor]: stroke color of topic→discovery links
package sink
