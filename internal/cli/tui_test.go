package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/expand"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/render"
)

// stubExplorer serves a fixed graph; Expand attaches two children.
type stubExplorer struct {
	g         *graph.Graph
	reloads   []graph.Filter
	expands   []string
	expandErr error
}

func newStubExplorer() *stubExplorer {
	g := graph.New()
	g.Nodes = append(g.Nodes,
		&graph.Node{ID: "Optics", Tier: graph.TierTopic, Label: "Optics", Branch: "Physics"},
		&graph.Node{ID: "Analysis", Tier: graph.TierTopic, Label: "Analysis", Branch: "Mathematics"},
	)
	return &stubExplorer{g: g}
}

func (s *stubExplorer) Reload(_ context.Context, f graph.Filter) (bool, error) {
	s.reloads = append(s.reloads, f)
	return true, nil
}

func (s *stubExplorer) Expand(_ context.Context, id string) (expand.Result, error) {
	s.expands = append(s.expands, id)
	if s.expandErr != nil {
		return expand.Result{}, s.expandErr
	}
	if s.g.IsExpanded(id) {
		return expand.Result{Duplicate: true}, nil
	}
	for _, label := range []string{"Refraction", "Diffraction"} {
		cid := graph.ChildID(id, label)
		s.g.Nodes = append(s.g.Nodes, &graph.Node{ID: cid, Tier: graph.TierDiscovery, ParentID: id, Label: label, Branch: "Physics", URL: "https://example.org/" + label})
		s.g.Links = append(s.g.Links, graph.Link{Source: id, Target: cid})
	}
	return expand.Result{Added: 2}, nil
}

func (s *stubExplorer) Snapshot() *graph.Graph { return s.g }

// run applies msg and executes the returned command synchronously,
// feeding its message back into the model.
func run(t *testing.T, m ExploreModel, msg tea.Msg) ExploreModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(ExploreModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(ExploreModel)
			}
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, ex *stubExplorer) ExploreModel {
	t.Helper()
	m := NewExploreModel(context.Background(), ex, render.DefaultPalette(), graph.DefaultFilter())
	next, _ := m.Update(m.Init()())
	return next.(ExploreModel)
}

func TestExploreModelInitialLoad(t *testing.T) {
	ex := newStubExplorer()
	m := newTestModel(t, ex)

	if len(ex.reloads) != 1 {
		t.Fatalf("reloads = %d, want 1", len(ex.reloads))
	}
	if len(m.rows) != 2 || m.loading {
		t.Fatalf("rows = %d, loading = %v", len(m.rows), m.loading)
	}
	view := m.View()
	for _, want := range []string{"Optics", "Analysis", "Physics"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExploreModelExpandAndFold(t *testing.T) {
	ex := newStubExplorer()
	m := newTestModel(t, ex)

	m = run(t, m, key("enter"))
	if len(ex.expands) != 1 || ex.expands[0] != "Optics" {
		t.Fatalf("expands = %v", ex.expands)
	}
	if len(m.rows) != 4 {
		t.Fatalf("rows after expand = %d, want 4", len(m.rows))
	}
	if m.rows[1].depth != 1 || m.rows[1].node.Label != "Refraction" {
		t.Errorf("row 1 = %+v", m.rows[1])
	}
	if !strings.Contains(m.status, "2 discoveries") {
		t.Errorf("status = %q", m.status)
	}

	// Enter on an expanded topic folds it without fetching again.
	m = run(t, m, key("enter"))
	if len(ex.expands) != 1 {
		t.Errorf("fold should not expand, expands = %v", ex.expands)
	}
	if len(m.rows) != 2 {
		t.Errorf("rows after fold = %d, want 2", len(m.rows))
	}
	m = run(t, m, key("enter"))
	if len(m.rows) != 4 {
		t.Errorf("rows after unfold = %d, want 4", len(m.rows))
	}

	// Enter on a discovery shows its link.
	m = run(t, m, key("down"))
	m = run(t, m, key("enter"))
	if m.status != "https://example.org/Refraction" {
		t.Errorf("status = %q", m.status)
	}
}

func TestExploreModelExpandError(t *testing.T) {
	ex := newStubExplorer()
	ex.expandErr = errors.New(errors.ErrCodeTransport, "backend unreachable")
	m := newTestModel(t, ex)

	m = run(t, m, key("enter"))
	if !m.failed || m.status != "backend unreachable" {
		t.Errorf("status = %q, failed = %v", m.status, m.failed)
	}
	if len(m.pending) != 0 {
		t.Error("failed expansion should clear pending")
	}
	if !strings.Contains(m.View(), "backend unreachable") {
		t.Error("view should show the error")
	}
}

func TestExploreModelFilterInput(t *testing.T) {
	ex := newStubExplorer()
	m := newTestModel(t, ex)

	m = run(t, m, key("/"))
	if !m.editing {
		t.Fatal("expected input mode")
	}
	for _, k := range []string{"P", "h", "y", "x", "backspace", "s", " ", "1", "8", "0", "0", "-"} {
		m = run(t, m, key(k))
	}
	if m.input != "Phys 1800-" {
		t.Fatalf("input = %q", m.input)
	}
	m = run(t, m, key("enter"))

	want := graph.Filter{Topic: "Phys", MinYear: 1800, MaxYear: 3000}
	if got := ex.reloads[len(ex.reloads)-1]; got != want {
		t.Errorf("reload filter = %+v, want %+v", got, want)
	}
	if m.filter != want {
		t.Errorf("model filter = %+v", m.filter)
	}
}

func TestExploreModelQuit(t *testing.T) {
	m := newTestModel(t, newStubExplorer())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestParseFilterInput(t *testing.T) {
	tests := []struct {
		in      string
		want    graph.Filter
		wantErr bool
	}{
		{"", graph.Filter{MinYear: 0, MaxYear: 3000}, false},
		{"Optics", graph.Filter{Topic: "Optics", MaxYear: 3000}, false},
		{"Quantum mechanics 1900-1950", graph.Filter{Topic: "Quantum mechanics", MinYear: 1900, MaxYear: 1950}, false},
		{"-1500", graph.Filter{MaxYear: 1500}, false},
		{"1900-", graph.Filter{MinYear: 1900, MaxYear: 3000}, false},
		{"Physics 0-5000", graph.Filter{}, true},
		{"Physics 1900-1950-2000", graph.Filter{}, true},
		{"../etc", graph.Filter{}, true},
	}
	for _, tt := range tests {
		got, err := parseFilterInput(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFilterInput(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseFilterInput(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFormatFilterInputRoundTrip(t *testing.T) {
	for _, f := range []graph.Filter{
		graph.DefaultFilter(),
		{Topic: "Optics", MinYear: 0, MaxYear: 3000},
		{Topic: "Optics", MinYear: 1600, MaxYear: 1700},
		{MinYear: 1600, MaxYear: 1700},
	} {
		got, err := parseFilterInput(formatFilterInput(f))
		if err != nil || got != f {
			t.Errorf("round trip %+v = %+v, %v", f, got, err)
		}
	}
}

func TestExploreModelExpandOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		result expand.Result
		want   string
	}{
		{"dropped by reload", expand.Result{Dropped: true}, "expansion dropped"},
		{"every label collided", expand.Result{Collisions: []string{"Lens", "Lens!"}}, "all 2 discoveries collided"},
		{"some labels collided", expand.Result{Added: 1, Collisions: []string{"Lens!"}}, "1 discoveries, 1 skipped"},
		{"empty", expand.Result{Empty: true}, "has no discoveries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, newStubExplorer())
			next, _ := m.activate()
			m = next.(ExploreModel)
			if !strings.HasPrefix(m.status, "Expanding Optics") {
				t.Fatalf("status before result = %q", m.status)
			}

			next, _ = m.Update(expandMsg{topic: "Optics", result: tt.result})
			m = next.(ExploreModel)
			if !strings.Contains(m.status, tt.want) || m.failed {
				t.Errorf("status = %q (failed %v), want %q", m.status, m.failed, tt.want)
			}
			if m.pending["Optics"] {
				t.Error("topic still pending")
			}
		})
	}
}
