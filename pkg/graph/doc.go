// Package graph defines the knowledge-graph data model shared by the
// explorer, the API client, the backend server and the renderers.
//
// # Model
//
// A [Graph] holds an ordered sequence of [Node] pointers and an ordered
// sequence of [Link] values. Nodes come in two tiers:
//
//   - [TierTopic]: top-level entities (a field such as "Quantum mechanics").
//     Topics are expandable exactly once per load.
//   - [TierDiscovery]: leaves revealed by expanding a topic.
//
// Links always run from a topic to one of its discoveries. The invariants
// are checked by [Graph.Validate]:
//
//	I1  every link target is a discovery whose ParentID equals the link source
//	I2  every link source is a topic
//	I3  node IDs are unique
//	I4  a topic's children were added in a single expansion
//
// # Identity
//
// Discovery IDs are derived from the parent topic and the label with
// [ChildID]. Labels are sanitized by replacing every rune outside
// [A-Za-z0-9] with "_", so two labels such as "Quantum Leap!" and
// "Quantum Leap?" map to the same ID under one parent. This collision is a
// known property of the scheme; the merge engine skips the second node.
//
// # Positions
//
// X and Y are owned by the layout provider, which rewrites them in place.
// Nodes are shared by pointer between snapshots so that a layout pass is
// visible to every holder of the graph. FX and FY, when set, pin a node at a
// seed position.
//
// # Wire Format
//
// The JSON encoding matches the backend API:
//
//	{
//	  "nodes": [{"id": "Optics", "label": "Optics", "branch": "Physics", "level": 0}],
//	  "links": [{"source": "Optics", "target": "Optics::Lens"}]
//	}
//
// # Concurrency
//
// Graph values are not safe for concurrent mutation. The store package
// serializes writers and hands out snapshots.
package graph
