package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
)

// Graph is the node-link structure rendered and explored by discograph.
// Node order is significant: expansions append, never reorder.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Links []Link  `json:"links"`
}

// New returns an empty graph with non-nil slices, so that it encodes as
// {"nodes": [], "links": []}.
func New() *Graph {
	return &Graph{Nodes: []*Node{}, Links: []Link{}}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.Links) }

// Topics returns the topic nodes in graph order.
func (g *Graph) Topics() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.IsTopic() {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the discoveries linked from parentID, in link order.
func (g *Graph) Children(parentID string) []*Node {
	var out []*Node
	for _, l := range g.Links {
		if l.Source != parentID {
			continue
		}
		if n, ok := g.Node(l.Target); ok {
			out = append(out, n)
		}
	}
	return out
}

// IsExpanded reports whether a link originates at id.
func (g *Graph) IsExpanded(id string) bool {
	return slices.ContainsFunc(g.Links, func(l Link) bool { return l.Source == id })
}

// Clone returns a graph with copied sequences that shares node records with g.
// Appending to the clone never affects g.
func (g *Graph) Clone() *Graph {
	return &Graph{
		Nodes: slices.Clone(g.Nodes),
		Links: slices.Clone(g.Links),
	}
}

// Bounds returns the bounding box of all node positions. An empty graph
// yields a zero box.
func (g *Graph) Bounds() Box {
	if len(g.Nodes) == 0 {
		return Box{}
	}
	b := Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, n := range g.Nodes {
		b.MinX = min(b.MinX, n.X)
		b.MinY = min(b.MinY, n.Y)
		b.MaxX = max(b.MaxX, n.X)
		b.MaxY = max(b.MaxY, n.Y)
	}
	return b
}

// Box is an axis-aligned rectangle in layout coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Pad grows the box by m on every side.
func (b Box) Pad(m float64) Box {
	return Box{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m}
}

// =============================================================================
// Serialization
// =============================================================================

// ReadGraph decodes a JSON graph. Missing sequences decode as empty.
func ReadGraph(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if g.Nodes == nil {
		g.Nodes = []*Node{}
	}
	if g.Links == nil {
		g.Links = []Link{}
	}
	return &g, nil
}

// WriteGraph encodes g as indented JSON.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraphFile reads a JSON graph from path.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// WriteGraphFile writes g as JSON to path.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}
