// SPDX-License-Identifier: MIT
//
// File: methods.go
// Role: Vertex and edge lifecycle plus neighborhood queries.
// Determinism:
//   - Every listing follows insertion order; no result depends on map iteration.
// Concurrency:
//   - Mutators take the write lock, queries the read lock. Returned slices are copies.

package core

import (
	"fmt"
	"strconv"
)

// AddVertex inserts a new vertex with the given ID into the Graph.
// Returns ErrEmptyVertexID if id is empty.
// If the vertex already exists, this is a no-op (idempotent).
// Complexity: O(1) amortized.
func (g *Graph) AddVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensureVertex(id)

	return nil
}

// HasVertex reports whether a vertex with the given ID exists in the graph.
// Complexity: O(1).
func (g *Graph) HasVertex(id string) bool {
	if id == "" {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// AddEdge records that from consumes to and returns the edge ID.
//
// Implementation:
//   - Stage 1: validate IDs and the loop policy.
//   - Stage 2: create missing endpoints in call order (from first, then to).
//   - Stage 3: on a repeated (from,to) pair bump Observations and return the
//     existing ID; otherwise allocate "e<N>" and wire both adjacency directions.
//
// Errors:
//   - ErrEmptyVertexID if either endpoint is empty.
//   - ErrLoopNotAllowed if from == to and the graph was not built WithLoops().
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if from == to && !g.allowLoops {
		return "", fmt.Errorf("AddEdge(%q,%q): %w", from, to, ErrLoopNotAllowed)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureVertex(from)
	g.ensureVertex(to)

	key := pairKey{from: from, to: to}
	if e, ok := g.edges[key]; ok {
		e.Observations++
		return e.ID, nil
	}

	g.nextEdgeID++
	e := &Edge{
		ID:           edgeIDPrefix + strconv.FormatUint(g.nextEdgeID, 10),
		From:         from,
		To:           to,
		Observations: 1,
	}
	g.edges[key] = e
	g.edgeOrder = append(g.edgeOrder, e)
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
	if from == to {
		g.loops++
	}

	return e.ID, nil
}

// HasEdge reports whether from consumes to.
// Complexity: O(1).
func (g *Graph) HasEdge(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.edges[pairKey{from: from, to: to}]

	return ok
}

// Edge returns a copy of the (from,to) edge or ErrEdgeNotFound.
func (g *Graph) Edge(from, to string) (Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[pairKey{from: from, to: to}]
	if !ok {
		return Edge{}, fmt.Errorf("Edge(%q,%q): %w", from, to, ErrEdgeNotFound)
	}

	return *e, nil
}

// Vertices returns vertex IDs in insertion order.
// Complexity: O(V).
func (g *Graph) Vertices() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)

	return out
}

// Edges returns copies of all edges in insertion order.
// Complexity: O(E).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.edgeOrder))
	for i, e := range g.edgeOrder {
		out[i] = *e
	}

	return out
}

// Successors returns the resources consumed by id, in link insertion order.
func (g *Graph) Successors(id string) ([]string, error) {
	return g.neighbors(id, g.out, "Successors")
}

// Predecessors returns the consumers feeding on id, in link insertion order.
func (g *Graph) Predecessors(id string) ([]string, error) {
	return g.neighbors(id, g.in, "Predecessors")
}

// Degree returns the number of consumers (in) and resources (out) of id.
// A self-loop counts once on each side.
func (g *Graph) Degree(id string) (in, out int, err error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return 0, 0, fmt.Errorf("Degree(%q): %w", id, ErrVertexNotFound)
	}

	return len(g.in[id]), len(g.out[id]), nil
}

// VertexCount returns |V|. Complexity: O(1).
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.vertices)
}

// EdgeCount returns |E| (distinct links). Complexity: O(1).
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// LoopCount returns the number of self-loop edges. Complexity: O(1).
func (g *Graph) LoopCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.loops
}

func (g *Graph) neighbors(id string, adj map[string][]string, ctx string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, fmt.Errorf("%s(%q): %w", ctx, id, ErrVertexNotFound)
	}
	out := make([]string, len(adj[id]))
	copy(out, adj[id])

	return out, nil
}

// ensureVertex inserts id if absent. Caller must hold the write lock.
func (g *Graph) ensureVertex(id string) {
	if _, ok := g.vertices[id]; ok {
		return
	}
	g.vertices[id] = &Vertex{ID: id}
	g.order = append(g.order, id)
}
