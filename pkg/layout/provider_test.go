package layout

import (
	"context"
	"testing"

	"github.com/matzehuels/discograph/pkg/graph"
)

func TestStatic(t *testing.T) {
	g := graph.New()
	a := pinned("a", 5, 6)
	a.X, a.Y = 0, 0
	b := &graph.Node{ID: "b", X: 1, Y: 2}
	g.Nodes = append(g.Nodes, a, b)

	var settled *graph.Graph
	s := Static{Settler: SettlerFunc(func(g *graph.Graph) { settled = g })}
	if err := s.Layout(context.Background(), g); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if a.X != 5 || a.Y != 6 {
		t.Errorf("pinned node at (%v,%v), want (5,6)", a.X, a.Y)
	}
	if b.X != 1 || b.Y != 2 {
		t.Errorf("free node moved to (%v,%v)", b.X, b.Y)
	}
	if settled != g {
		t.Error("settler not called")
	}
}

func TestFitView(t *testing.T) {
	g := graph.New()
	g.Nodes = append(g.Nodes, &graph.Node{ID: "a", X: -10, Y: 0}, &graph.Node{ID: "b", X: 30, Y: 20})

	f := &FitView{Margin: 5}
	f.Settled(g)
	want := graph.Box{MinX: -15, MinY: -5, MaxX: 35, MaxY: 25}
	if f.Box != want {
		t.Errorf("Box = %+v, want %+v", f.Box, want)
	}
}
