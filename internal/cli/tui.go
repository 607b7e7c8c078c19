package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/expand"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/render"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listInputStyle  = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Messages
// =============================================================================

type reloadMsg struct {
	filter  graph.Filter
	applied bool
	err     error
}

type expandMsg struct {
	topic  string
	result expand.Result
	err    error
}

// explorerAPI is the part of explorer.Explorer the model drives.
type explorerAPI interface {
	Reload(ctx context.Context, f graph.Filter) (bool, error)
	Expand(ctx context.Context, topicID string) (expand.Result, error)
	Snapshot() *graph.Graph
}

// =============================================================================
// ExploreModel - interactive graph browser
// =============================================================================

type exploreRow struct {
	node  *graph.Node
	depth int
}

// ExploreModel lists topics and, below expanded topics, their discoveries.
// Expansions and reloads run as commands so the list stays responsive; the
// rows are rebuilt from the explorer's snapshot whenever one completes.
type ExploreModel struct {
	ctx     context.Context
	ex      explorerAPI
	palette render.Palette

	filter  graph.Filter
	rows    []exploreRow
	hidden  map[string]bool
	pending map[string]bool
	loading bool

	cursor int
	offset int
	height int

	editing bool
	input   string
	status  string
	failed  bool
}

// NewExploreModel creates a model that loads f on start.
func NewExploreModel(ctx context.Context, ex explorerAPI, palette render.Palette, f graph.Filter) ExploreModel {
	return ExploreModel{
		ctx:     ctx,
		ex:      ex,
		palette: palette,
		filter:  f,
		hidden:  map[string]bool{},
		pending: map[string]bool{},
		height:  15,
		loading: true,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return m.reload(m.filter)
}

func (m ExploreModel) reload(f graph.Filter) tea.Cmd {
	ctx, ex := m.ctx, m.ex
	return func() tea.Msg {
		ok, err := ex.Reload(ctx, f)
		return reloadMsg{filter: f, applied: ok, err: err}
	}
}

func (m ExploreModel) expand(id string) tea.Cmd {
	ctx, ex := m.ctx, m.ex
	return func() tea.Msg {
		r, err := ex.Expand(ctx, id)
		return expandMsg{topic: id, result: r, err: err}
	}
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateList(msg)

	case reloadMsg:
		m.loading = false
		switch {
		case msg.err != nil:
			m.setError(msg.err)
		case msg.applied:
			m.filter = msg.filter
			m.pending = map[string]bool{}
			m.hidden = map[string]bool{}
			m.cursor, m.offset = 0, 0
			m.setStatus(fmt.Sprintf("Loaded %s", msg.filter))
		}
		m.refresh()

	case expandMsg:
		delete(m.pending, msg.topic)
		switch {
		case msg.err != nil:
			m.setError(msg.err)
		case msg.result.Duplicate:
			m.setStatus(msg.topic + " is already expanded")
		case msg.result.Dropped:
			m.setStatus(msg.topic + ": graph was reloaded, expansion dropped")
		case msg.result.Empty:
			m.setStatus(msg.topic + " has no discoveries")
		case msg.result.Added == 0:
			m.setStatus(fmt.Sprintf("%s: all %d discoveries collided with existing nodes", msg.topic, len(msg.result.Collisions)))
		case len(msg.result.Collisions) > 0:
			m.setStatus(fmt.Sprintf("%s: %d discoveries, %d skipped", msg.topic, msg.result.Added, len(msg.result.Collisions)))
		default:
			m.setStatus(fmt.Sprintf("%s: %d discoveries", msg.topic, msg.result.Added))
		}
		m.refresh()

	case tea.WindowSizeMsg:
		m.height = max(msg.Height-9, 5)
		m.scroll()
	}
	return m, nil
}

func (m ExploreModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m, m.reload(m.filter)
	case "/":
		m.editing = true
		m.input = formatFilterInput(m.filter)
	case "enter", " ":
		return m.activate()
	}
	m.scroll()
	return m, nil
}

// activate expands the topic under the cursor, folds or unfolds an
// expanded one, and shows the link of a discovery.
func (m ExploreModel) activate() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.rows) {
		return m, nil
	}
	n := m.rows[m.cursor].node
	if !n.Tier.Expandable() {
		m.setStatus(n.URL)
		return m, nil
	}
	if m.pending[n.ID] {
		return m, nil
	}
	if g := m.ex.Snapshot(); g.IsExpanded(n.ID) {
		m.hidden[n.ID] = !m.hidden[n.ID]
		m.refresh()
		return m, nil
	}
	m.pending[n.ID] = true
	m.setStatus("Expanding " + n.Label + "...")
	return m, m.expand(n.ID)
}

func (m ExploreModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.editing = false
	case tea.KeyEnter:
		m.editing = false
		f, err := parseFilterInput(m.input)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.loading = true
		return m, m.reload(f)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *ExploreModel) setStatus(s string) { m.status, m.failed = s, false }

func (m *ExploreModel) setError(err error) { m.status, m.failed = errors.UserMessage(err), true }

// refresh rebuilds the rows from the current snapshot.
func (m *ExploreModel) refresh() {
	g := m.ex.Snapshot()
	m.rows = nil
	for _, t := range g.Topics() {
		m.rows = append(m.rows, exploreRow{node: t})
		if m.hidden[t.ID] {
			continue
		}
		for _, c := range g.Children(t.ID) {
			m.rows = append(m.rows, exploreRow{node: c, depth: 1})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.scroll()
}

func (m *ExploreModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Discograph"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.filter.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  / filter  r reload  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString(listDimStyle.Render("  Loading..."))
	case len(m.rows) == 0:
		b.WriteString(listDimStyle.Render("  No topics match this filter"))
	default:
		b.WriteString(m.table())
	}
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString(listInputStyle.Render("filter> " + m.input + "█"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  topic [min-max], e.g. \"Physics 1800-1950\""))
		return b.String()
	}

	g := m.ex.Snapshot()
	topics := len(g.Topics())
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s", min(m.cursor+1, len(m.rows)), len(m.rows),
		formatStats(topics, g.NodeCount()-topics, g.LinkCount()))))
	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(styleIconError.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleDim.Render(m.status))
		}
	}
	return b.String()
}

func (m ExploreModel) table() string {
	end := min(m.offset+m.height, len(m.rows))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		var marker string
		switch {
		case r.depth > 0:
			marker = "  " + iconHex
		case m.pending[r.node.ID]:
			marker = "…"
		case m.hidden[r.node.ID]:
			marker = "▸"
		default:
			marker = iconHex
		}

		year := ""
		if r.node.Year != nil {
			year = strconv.Itoa(*r.node.Year)
		}
		rows = append(rows, []string{cursor, marker + " " + r.node.Label, year, r.node.Branch})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Year", "Branch").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			r := m.rows[idx]
			style := branchStyle(m.palette.Color(r.node.Branch))
			if r.depth > 0 && col != 1 {
				style = style.Foreground(colorDim)
			}
			if idx == m.cursor {
				style = style.Bold(true)
			}
			return style
		}).
		Render()
}

// =============================================================================
// Filter input
// =============================================================================

// parseFilterInput reads "topic", "min-max" or "topic min-max". Either year
// may be left out of the range ("1900-" or "-1950").
func parseFilterInput(s string) (graph.Filter, error) {
	f := graph.DefaultFilter()
	fields := strings.Fields(s)
	if n := len(fields); n > 0 && isYearRange(fields[n-1]) {
		lo, hi, _ := strings.Cut(fields[n-1], "-")
		var err error
		if lo != "" {
			if f.MinYear, err = strconv.Atoi(lo); err != nil {
				return f, errors.New(errors.ErrCodeInvalidInput, "invalid year %q", lo)
			}
		}
		if hi != "" {
			if f.MaxYear, err = strconv.Atoi(hi); err != nil {
				return f, errors.New(errors.ErrCodeInvalidInput, "invalid year %q", hi)
			}
		}
		fields = fields[:n-1]
	}
	f.Topic = strings.Join(fields, " ")
	return f, f.Validate()
}

func isYearRange(s string) bool {
	if !strings.Contains(s, "-") || s == "-" {
		return false
	}
	for _, r := range s {
		if r != '-' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// formatFilterInput is the inverse of parseFilterInput.
func formatFilterInput(f graph.Filter) string {
	d := graph.DefaultFilter()
	if f.MinYear == d.MinYear && f.MaxYear == d.MaxYear {
		return f.Topic
	}
	return strings.TrimSpace(fmt.Sprintf("%s %d-%d", f.Topic, f.MinYear, f.MaxYear))
}
