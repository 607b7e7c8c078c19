package graph

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func sampleGraph() *Graph {
	g := New()
	g.Nodes = append(g.Nodes,
		&Node{ID: "Optics", Label: "Optics", Branch: "Physics", X: 10, Y: -5},
		&Node{ID: "Genetics", Label: "Genetics", Branch: "Biology", X: -20, Y: 30},
		&Node{ID: "Optics::Lens", Tier: TierDiscovery, ParentID: "Optics", Label: "Lens", Branch: "Physics", Year: intPtr(1608), X: 40, Y: 0},
	)
	g.Links = append(g.Links, Link{Source: "Optics", Target: "Optics::Lens"})
	return g
}

func TestGraphLookup(t *testing.T) {
	g := sampleGraph()

	if n, ok := g.Node("Optics::Lens"); !ok || n.Label != "Lens" {
		t.Errorf("Node(Optics::Lens) = %v, %v", n, ok)
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("Node(missing) should not be found")
	}
	if got := len(g.Topics()); got != 2 {
		t.Errorf("Topics() = %d, want 2", got)
	}
	if kids := g.Children("Optics"); len(kids) != 1 || kids[0].ID != "Optics::Lens" {
		t.Errorf("Children(Optics) = %v", kids)
	}
	if !g.IsExpanded("Optics") {
		t.Error("Optics should be expanded")
	}
	if g.IsExpanded("Genetics") {
		t.Error("Genetics should not be expanded")
	}
}

func TestGraphClone(t *testing.T) {
	g := sampleGraph()
	c := g.Clone()

	c.Nodes = append(c.Nodes, &Node{ID: "extra"})
	c.Links = append(c.Links, Link{Source: "Genetics", Target: "extra"})
	if g.NodeCount() != 3 || g.LinkCount() != 1 {
		t.Errorf("original changed: %d nodes, %d links", g.NodeCount(), g.LinkCount())
	}

	// Node records are shared, so layout writes are visible to both.
	c.Nodes[0].X = 99
	if g.Nodes[0].X != 99 {
		t.Error("clone should share node records")
	}
}

func TestGraphBounds(t *testing.T) {
	b := sampleGraph().Bounds()
	want := Box{MinX: -20, MinY: -5, MaxX: 40, MaxY: 30}
	if b != want {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}
	if b.Width() != 60 || b.Height() != 35 {
		t.Errorf("size = %vx%v, want 60x35", b.Width(), b.Height())
	}
	if p := b.Pad(5); p.MinX != -25 || p.MaxY != 35 {
		t.Errorf("Pad(5) = %+v", p)
	}
	if (New().Bounds() != Box{}) {
		t.Error("empty graph should have zero bounds")
	}
}

func TestNodePin(t *testing.T) {
	n := &Node{ID: "a"}
	if n.Pinned() {
		t.Fatal("new node should not be pinned")
	}
	n.Pin(3, 4)
	if !n.Pinned() || *n.FX != 3 || *n.FY != 4 || n.X != 3 || n.Y != 4 {
		t.Errorf("Pin(3,4) = %+v", n)
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantLinks int
		wantErr   bool
	}{
		{name: "Empty", input: `{}`, wantNodes: 0, wantLinks: 0},
		{
			name:      "BackendResponse",
			input:     `{"nodes":[{"id":"Optics","label":"Optics","branch":"Physics","level":0}],"links":[]}`,
			wantNodes: 1,
		},
		{
			name: "WithDiscovery",
			input: `{"nodes":[{"id":"Optics","label":"Optics","branch":"Physics","level":0},
				{"id":"Optics::Lens","label":"Lens","branch":"Physics","level":1,"parent":"Optics","year":1608}],
				"links":[{"source":"Optics","target":"Optics::Lens"}]}`,
			wantNodes: 2,
			wantLinks: 1,
		},
		{name: "Invalid", input: `{"nodes":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadGraph() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if g.NodeCount() != tt.wantNodes || g.LinkCount() != tt.wantLinks {
				t.Errorf("got %d nodes, %d links; want %d, %d", g.NodeCount(), g.LinkCount(), tt.wantNodes, tt.wantLinks)
			}
			if g.Nodes == nil || g.Links == nil {
				t.Error("sequences should never be nil")
			}
		})
	}
}

func TestWriteGraphEmptySequences(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(New(), &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw["nodes"]) != "[]" || string(raw["links"]) != "[]" {
		t.Errorf("empty graph encoded as %s", buf.String())
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(sampleGraph(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	lens, ok := g.Node("Optics::Lens")
	if !ok {
		t.Fatal("discovery lost")
	}
	if lens.Tier != TierDiscovery || lens.ParentID != "Optics" || *lens.Year != 1608 {
		t.Errorf("discovery = %+v", lens)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestFilter(t *testing.T) {
	f := DefaultFilter()
	if err := f.Validate(); err != nil {
		t.Fatalf("default filter invalid: %v", err)
	}
	if q := f.Query(); q.Has("topic") || q.Get("min_year") != "0" || q.Get("max_year") != "3000" {
		t.Errorf("Query() = %v", q)
	}

	f = Filter{Topic: "Earth Science", MinYear: 1900, MaxYear: 2000}
	if got := f.Query().Encode(); got != "max_year=2000&min_year=1900&topic=Earth+Science" {
		t.Errorf("Encode() = %q", got)
	}
	if got := f.String(); got != "Earth Science[1900..2000]" {
		t.Errorf("String() = %q", got)
	}
	if err := (Filter{MinYear: -5, MaxYear: 10}).Validate(); err == nil {
		t.Error("negative min year should be rejected")
	}
}

func TestTierString(t *testing.T) {
	if TierTopic.String() != "topic" || TierDiscovery.String() != "discovery" || Tier(7).String() != "tier(7)" {
		t.Error("unexpected tier names")
	}
	if !TierTopic.Expandable() || TierDiscovery.Expandable() {
		t.Error("only topics are expandable")
	}
}
