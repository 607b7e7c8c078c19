package catalog

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
)

// Memory is an in-process [Store]. It is safe for concurrent use; [Memory.Replace]
// swaps the whole dataset atomically.
type Memory struct {
	mu     sync.RWMutex
	recs   []Record       // import order
	byID   map[string]int // index into recs
	topics map[string]*topicEntry
	order  []string // topic names, first-seen order
}

type topicEntry struct {
	branch string
	recs   []int
}

// NewMemory returns a store holding records.
func NewMemory(records []Record) (*Memory, error) {
	m := &Memory{}
	if err := m.Replace(records); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile returns a store holding the records of a JSON dataset file.
func LoadFile(path string) (*Memory, error) {
	recs, err := ReadRecordsFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load %s", path)
	}
	return NewMemory(recs)
}

// Replace discards the current dataset and loads records.
func (m *Memory) Replace(records []Record) error {
	next := &Memory{}
	next.reset()
	if err := next.add(records); err != nil {
		return err
	}
	m.mu.Lock()
	m.recs, m.byID, m.topics, m.order = next.recs, next.byID, next.topics, next.order
	m.mu.Unlock()
	return nil
}

// Import adds records, replacing existing ones with the same ID.
func (m *Memory) Import(_ context.Context, records []Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byID == nil {
		m.reset()
	}
	if err := m.add(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Len returns the number of discoveries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recs)
}

func (m *Memory) reset() {
	m.recs = nil
	m.byID = map[string]int{}
	m.topics = map[string]*topicEntry{}
	m.order = nil
}

// add must be called with the write lock held or on an unpublished value.
// The whole batch is normalized before any record is applied, so a bad
// record leaves m unchanged. A topic keeps the branch of the first record
// that names it with a hierarchy.
func (m *Memory) add(records []Record) error {
	batch := make([]Record, len(records))
	for i, r := range records {
		if err := r.Normalize(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "import record %d", i)
		}
		batch[i] = r
	}
	for _, r := range batch {
		if idx, ok := m.byID[r.ID]; ok {
			old := m.recs[idx]
			m.recs[idx] = r
			if old.TopicLabel != r.TopicLabel {
				m.detach(old.TopicLabel, idx)
				m.attach(r, idx)
			}
			continue
		}
		idx := len(m.recs)
		m.recs = append(m.recs, r)
		m.byID[r.ID] = idx
		m.attach(r, idx)
	}
	return nil
}

func (m *Memory) attach(r Record, idx int) {
	t, ok := m.topics[r.TopicLabel]
	if !ok {
		t = &topicEntry{}
		m.topics[r.TopicLabel] = t
		m.order = append(m.order, r.TopicLabel)
	}
	if t.branch == "" && len(r.TopicHierarchy) > 0 {
		t.branch = BranchOf(r.TopicHierarchy)
	}
	t.recs = append(t.recs, idx)
}

func (m *Memory) detach(topic string, idx int) {
	t, ok := m.topics[topic]
	if !ok {
		return
	}
	t.recs = slices.DeleteFunc(t.recs, func(i int) bool { return i == idx })
}

func (t *topicEntry) branchOrUnsorted() string {
	if t.branch == "" {
		return UnsortedBranch
	}
	return t.branch
}

// Topics implements [Store].
func (m *Memory) Topics(ctx context.Context) ([]Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Topic, 0, len(m.order))
	for _, name := range m.order {
		t := m.topics[name]
		if len(t.recs) == 0 {
			continue
		}
		out = append(out, Topic{Name: name, Branch: t.branchOrUnsorted()})
	}
	return out, nil
}

// Discoveries implements [Store].
func (m *Memory) Discoveries(ctx context.Context, topic string) ([]graph.Discovery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.topics[topic]
	if !ok || len(t.recs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no discoveries for topic %q", topic)
	}
	recs := make([]Record, len(t.recs))
	for i, idx := range t.recs {
		recs[i] = m.recs[idx]
	}
	slices.SortStableFunc(recs, compareYear)

	out := make([]graph.Discovery, len(recs))
	for i, r := range recs {
		out[i] = graph.Discovery{Name: r.Name, Year: r.Year, URL: WikipediaURL(r.Name)}
	}
	return out, nil
}

// compareYear orders by year ascending with undated records last.
func compareYear(a, b Record) int {
	switch {
	case a.Year == nil && b.Year == nil:
		return 0
	case a.Year == nil:
		return 1
	case b.Year == nil:
		return -1
	}
	return cmp.Compare(*a.Year, *b.Year)
}

// Graph implements [Store].
func (m *Memory) Graph(ctx context.Context, f graph.Filter) (*graph.Graph, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var nodes []*graph.Node
	for _, name := range m.order {
		t := m.topics[name]
		branch := t.branchOrUnsorted()
		if f.Topic != "" && f.Topic != name && f.Topic != branch {
			continue
		}
		if !slices.ContainsFunc(t.recs, func(idx int) bool {
			return inRange(m.recs[idx].Year, f.MinYear, f.MaxYear)
		}) {
			continue
		}
		nodes = append(nodes, topicNode(name, branch))
	}
	sortTopicNodes(nodes)

	g := graph.New()
	g.Nodes = append(g.Nodes, nodes...)
	return g, nil
}

func sortTopicNodes(nodes []*graph.Node) {
	slices.SortStableFunc(nodes, func(a, b *graph.Node) int {
		return cmp.Or(cmp.Compare(a.Branch, b.Branch), cmp.Compare(a.ID, b.ID))
	})
}

// Close implements [Store].
func (m *Memory) Close() error { return nil }
