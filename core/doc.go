// SPDX-License-Identifier: MIT

// Package core provides the directed, label-keyed Graph that models a food web:
// vertices are taxa, and an edge From→To records that From (the consumer) feeds
// on To (the resource).
//
// The Graph G = (V,E) has a small, fixed behavior set:
//
//   - Directed edges only; orientation is consumer → resource.
//   - Simple graph semantics: repeated observations of the same (from,to) pair
//     collapse into one Edge whose Observations counter is incremented.
//   - Self-loops (cannibalism) are rejected unless the graph was built WithLoops().
//   - Insertion order is preserved for vertices and edges, so Vertices() and
//     Edges() are deterministic for a fixed input sequence.
//   - One sync.RWMutex guards all state; a graph may be shared read-only across
//     goroutines once construction is done.
//
// Core Methods:
//
//	// Vertex lifecycle
//	AddVertex(id string) error                 // O(1), idempotent
//	HasVertex(id string) bool                  // O(1)
//
//	// Edge lifecycle
//	AddEdge(from, to string) (edgeID string, err error) // O(1), adds missing endpoints
//	HasEdge(from, to string) bool              // O(1)
//	Edge(from, to string) (Edge, error)        // O(1) copy
//
//	// Query
//	Vertices() []string                        // insertion order
//	Edges() []Edge                             // insertion order, copies
//	Successors(id string) ([]string, error)    // resources of a consumer
//	Predecessors(id string) ([]string, error)  // consumers of a resource
//	Degree(id string) (in, out int, err error)
//
//	// Counts & summary
//	VertexCount() int; EdgeCount() int; LoopCount() int
//	Stats() GraphStats; Connectance() float64
//
// Errors:
//
//	ErrEmptyVertexID  – zero-length vertex ID
//	ErrVertexNotFound – missing vertex
//	ErrEdgeNotFound   – missing edge
//	ErrLoopNotAllowed – self-loop when loops are disabled
package core
