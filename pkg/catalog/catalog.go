// Package catalog stores the discovery dataset served by the backend.
//
// The dataset is a flat list of discoveries, each belonging to one primary
// topic. A topic carries a hierarchy of broader topics; the head of the
// hierarchy is the topic's branch and selects its color. Topics without a
// hierarchy belong to the "Unsorted" branch.
//
// Two [Store] implementations exist: [Memory], loaded from the JSON dataset
// and optionally reloaded when the file changes ([Watch]), and [Mongo],
// backed by a MongoDB collection.
package catalog

import (
	"context"
	"strings"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
)

// UnsortedBranch is the branch of topics without a hierarchy.
const UnsortedBranch = "Unsorted"

// WikipediaBase prefixes synthesized discovery URLs.
const WikipediaBase = "https://en.wikipedia.org/wiki/"

// Topic is one entry of the topic listing.
type Topic struct {
	Name   string `json:"name"`
	Branch string `json:"branch"`
}

// Store answers the backend queries.
type Store interface {
	// Topics lists topics that have at least one discovery.
	Topics(ctx context.Context) ([]Topic, error)

	// Discoveries returns the discoveries of a topic ordered by year,
	// undated ones last. An unknown topic is a NOT_FOUND error.
	Discoveries(ctx context.Context, topic string) ([]graph.Discovery, error)

	// Graph returns topic nodes with at least one discovery inside the
	// filter's year range. A non-empty filter topic matches a topic name or
	// a branch. Links are always empty.
	Graph(ctx context.Context, f graph.Filter) (*graph.Graph, error)

	// Import adds or replaces records by ID.
	Import(ctx context.Context, records []Record) (int, error)

	Close() error
}

// WikipediaURL returns the article URL for a discovery name.
func WikipediaURL(name string) string {
	return WikipediaBase + strings.ReplaceAll(name, " ", "_")
}

// BranchOf returns the head of hierarchy, or [UnsortedBranch].
func BranchOf(hierarchy []string) string {
	if len(hierarchy) == 0 || hierarchy[0] == "" {
		return UnsortedBranch
	}
	return hierarchy[0]
}

// inRange applies the year filter: undated discoveries count as
// errors.MinYear for the lower bound and errors.MaxYear for the upper bound.
func inRange(year *int, minYear, maxYear int) bool {
	lo, hi := errors.MinYear, errors.MaxYear
	if year != nil {
		lo, hi = *year, *year
	}
	return lo >= minYear && hi <= maxYear
}

func topicNode(name, branch string) *graph.Node {
	return &graph.Node{ID: name, Tier: graph.TierTopic, Label: name, Branch: branch}
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Mongo)(nil)
)
