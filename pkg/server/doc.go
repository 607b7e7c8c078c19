// Package server implements the discograph backend API on top of a
// [catalog.Store].
//
// Routes:
//
//	GET /graph?topic=&min_year=0&max_year=3000   topic-level graph
//	GET /discoveries/{topic}                     discoveries ordered by year
//	GET /topics                                  topics with their branch
//	GET /colour/{branch}                         branch color
//	GET /healthz                                 liveness
//	GET /metrics                                 Prometheus metrics
//
// Errors are JSON objects of the form {"detail": "..."}. Invalid query
// parameters answer 422, unknown topics 404.
package server
