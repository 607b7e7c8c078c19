// Package expand merges fetched discoveries into a topic graph.
//
// An expansion turns the discoveries of one topic into child nodes and
// topic→discovery links. [Expander.Expand] never modifies its input graph:
// it returns a new graph whose node and link sequences are the old ones
// followed by the appended children, so a caller can publish the result
// atomically.
//
// Expansion is idempotent. Once a topic has children, further expansions
// of it are reported as [Result.Duplicate] and change nothing. An empty
// discovery list is reported as [Result.Empty] and also leaves the graph
// untouched, so the topic stays expandable.
//
// Child IDs come from [graph.ChildID]. Two labels that sanitize to the same
// string under one parent would share an ID; the later entry is skipped and
// listed in [Result.Collisions].
package expand
