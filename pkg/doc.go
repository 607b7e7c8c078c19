// Package pkg holds the libraries behind discograph, an explorable knowledge
// graph of scientific discoveries.
//
// # Overview
//
// The backend serves a catalog of discoveries grouped by topic. Clients fetch
// the topic-level graph for a filter, then expand topics on demand: each
// expansion fetches the topic's discoveries and seeds them around it.
//
//	catalog.Store (memory / MongoDB)
//	         ↓
//	    [server] HTTP API (/graph, /discoveries, /topics, /colour)
//	         ↓
//	    [client] cached, retrying, deduplicated fetches
//	         ↓
//	    [explorer] reload / expand, guarded by [store] generations
//	         ↓
//	    [layout] + [render] → SVG, PNG, DOT
//
// # Quick Start
//
// Expand every topic of the Physics branch and render it:
//
//	cl, _ := client.New("http://localhost:8000")
//	ex := explorer.New(cl, explorer.Options{Expander: expand.New(layout.NewPlacer())})
//
//	f := graph.DefaultFilter()
//	f.Topic = "Physics"
//	ex.Reload(ctx, f)
//	for _, t := range ex.Snapshot().Topics() {
//	    ex.Expand(ctx, t.ID)
//	}
//
//	p := render.NewPolicy(render.DefaultConfig(), nil)
//	svg := sink.RenderSVG(ex.Snapshot(), p)
//
// # Packages
//
// [graph] - Nodes, links, filters and JSON serialization.
//
// [catalog] - The discovery dataset: JSON records in memory (with file
// watching) or a MongoDB collection.
//
// [expand] - Merges fetched discoveries under a topic, once.
//
// [store] - The current graph with copy-on-write updates and reload tokens.
//
// [cache] - File, Redis and null response caches.
//
// [observability] - Hooks for metrics and tracing; [server] installs
// Prometheus collectors through them.
//
// [server]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/server
// [store]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/store
// [graph]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/graph
// [catalog]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/catalog
// [expand]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/expand
// [cache]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/observability
//
// [client]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/client
// [explorer]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/explorer
// [layout]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/discograph/pkg/render
package pkg
