// Package client fetches graphs and discoveries from the discograph backend.
//
// Responses are cached through a [cache.Cache] (file or Redis), transient
// failures (network errors, 5xx, 429) are retried with exponential backoff,
// and concurrent identical requests are collapsed into one round trip.
//
//	c, err := client.New("http://localhost:8000",
//	    client.WithCache(fileCache, time.Hour),
//	    client.WithLogger(logger))
//	g, err := c.FetchGraph(ctx, graph.Filter{Topic: "Physics", MinYear: 1900, MaxYear: 2000})
//	ds, err := c.FetchDiscoveries(ctx, "Relativity")
//
// A topic the backend does not know yields an empty discovery list, not an
// error. Every other failure is a TRANSPORT_ERROR.
package client
