// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Vertex, Edge, Graph, GraphOption, sentinel errors and the NewGraph constructor.

package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided vertex ID is empty.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")
)

// edgeIDPrefix prefixes generated edge IDs ("e1", "e2", ...).
const edgeIDPrefix = "e"

// Vertex represents a taxon in the food web.
type Vertex struct {
	// ID is the taxon label; unique within its Graph.
	ID string
}

// Edge records a feeding link: From consumes To.
//
// Observations counts how many interaction records produced this link; the
// link itself exists once regardless of the count.
type Edge struct {
	// ID uniquely identifies this edge in the Graph.
	ID string

	// From is the consumer vertex ID.
	From string

	// To is the resource vertex ID.
	To string

	// Observations is the number of times AddEdge was called for (From, To).
	Observations int
}

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithLoops permits self-loops (a taxon feeding on itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// WithCapacity pre-sizes the vertex catalog for n taxa.
func WithCapacity(n int) GraphOption {
	return func(g *Graph) {
		if n > 0 {
			g.vertexHint = n
		}
	}
}

// pairKey is the ordered (from,to) identity of an edge.
type pairKey struct {
	from, to string
}

// Graph is the in-memory directed food-web graph.
//
// order and edgeOrder keep insertion order so every listing is deterministic;
// out and in hold adjacency in both directions for O(1) successor and
// predecessor lookups.
type Graph struct {
	mu sync.RWMutex // guards everything below

	allowLoops bool // allow self-loops
	vertexHint int  // initial capacity for vertex maps

	nextEdgeID uint64
	order      []string           // vertex IDs in insertion order
	vertices   map[string]*Vertex // vertex ID → Vertex
	edges      map[pairKey]*Edge  // (from,to) → Edge
	edgeOrder  []*Edge            // edges in insertion order
	loops      int                // number of self-loop edges

	out map[string][]string // consumer → resources, insertion order
	in  map[string][]string // resource → consumers, insertion order
}

// NewGraph creates an empty directed Graph. By default self-loops are rejected.
// Complexity: O(1) (plus the capacity hint, if any).
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}
	g.vertices = make(map[string]*Vertex, g.vertexHint)
	g.edges = make(map[pairKey]*Edge)
	g.out = make(map[string][]string, g.vertexHint)
	g.in = make(map[string][]string, g.vertexHint)
	g.order = make([]string, 0, g.vertexHint)

	return g
}
