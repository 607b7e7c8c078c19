package graph

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/matzehuels/discograph/pkg/errors"
)

// =============================================================================
// Tier
// =============================================================================

// Tier classifies a node and controls rendering and expansion eligibility.
// The numeric value is the depth level used on the wire.
type Tier int

// Known tiers.
const (
	TierTopic     Tier = 0
	TierDiscovery Tier = 1
)

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierTopic:
		return "topic"
	case TierDiscovery:
		return "discovery"
	default:
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
}

// Expandable reports whether nodes of this tier can reveal children.
func (t Tier) Expandable() bool { return t == TierTopic }

// =============================================================================
// Node
// =============================================================================

// Node is a topic or a discovery in the knowledge graph.
type Node struct {
	ID       string `json:"id"`
	Tier     Tier   `json:"level"`
	ParentID string `json:"parent,omitempty"` // Discovery only
	Label    string `json:"label"`
	Year     *int   `json:"year,omitempty"` // Discovery only
	URL      string `json:"url,omitempty"`
	Branch   string `json:"branch"`

	// Position, rewritten by the layout provider.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// Fixed seed position; nil when the node is free.
	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`
}

// IsTopic returns true for topic nodes.
func (n *Node) IsTopic() bool { return n.Tier == TierTopic }

// IsDiscovery returns true for discovery nodes.
func (n *Node) IsDiscovery() bool { return n.Tier == TierDiscovery }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Pin fixes the node at (x, y) and moves it there.
func (n *Node) Pin(x, y float64) {
	n.X, n.Y = x, y
	n.FX, n.FY = &x, &y
}

// Pinned reports whether the node has a fixed position.
func (n *Node) Pinned() bool { return n.FX != nil && n.FY != nil }

// =============================================================================
// Link
// =============================================================================

// Link is a directed edge from a topic to one of its discoveries.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// =============================================================================
// Discovery
// =============================================================================

// Discovery is one entry of the discoveries endpoint response. It is the raw
// input to an expansion, before it becomes a [Node].
type Discovery struct {
	Name string `json:"name"`
	Year *int   `json:"year"`
	URL  string `json:"url"`
}

// =============================================================================
// Filter
// =============================================================================

// Filter selects the topic-level graph returned by the backend.
// An empty Topic means all topics.
type Filter struct {
	Topic   string `json:"topic,omitempty"`
	MinYear int    `json:"min_year"`
	MaxYear int    `json:"max_year"`
}

// DefaultFilter returns the filter that matches every topic and year.
func DefaultFilter() Filter {
	return Filter{MinYear: errors.MinYear, MaxYear: errors.MaxYear}
}

// Validate checks the year bounds and, when set, the topic name.
func (f Filter) Validate() error {
	if f.Topic != "" {
		if err := errors.ValidateTopicName(f.Topic); err != nil {
			return err
		}
	}
	return errors.ValidateYearRange(f.MinYear, f.MaxYear)
}

// Query encodes the filter as URL query parameters. The topic parameter is
// omitted when empty.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Topic != "" {
		q.Set("topic", f.Topic)
	}
	q.Set("min_year", strconv.Itoa(f.MinYear))
	q.Set("max_year", strconv.Itoa(f.MaxYear))
	return q
}

// String returns a compact description for logs.
func (f Filter) String() string {
	topic := f.Topic
	if topic == "" {
		topic = "*"
	}
	return fmt.Sprintf("%s[%d..%d]", topic, f.MinYear, f.MaxYear)
}
