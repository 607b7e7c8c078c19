// Package layout positions graph nodes.
//
// Two concerns live here:
//
//   - [Placer] computes seed positions for newly revealed discoveries: an
//     even ring around the parent topic, with a small random jitter so that
//     the force layout does not start from a perfectly symmetric state.
//   - [Provider] implementations write final X/Y coordinates for every node.
//     [Graphviz] runs the fdp or neato engine through go-graphviz and honors
//     pinned seed positions; [Static] only applies pins.
//
// Coordinates are in points (1/72 inch), matching the render surfaces.
package layout
