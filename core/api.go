// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: Read-only summaries over a Graph (policy flags, counts, connectance).
// Policy:
//   - No mutation here; each function takes the read lock once.

package core

// GraphStats is a point-in-time summary of a Graph.
type GraphStats struct {
	VertexCount  int     // |V|
	EdgeCount    int     // distinct links |E|
	LoopCount    int     // self-loops among |E|
	Observations int     // total AddEdge calls that hit an edge (≥ EdgeCount)
	Connectance  float64 // |E| / (|V|(|V|−1)), 0 when |V| ≤ 1
	AllowsLoops  bool    // loop policy
}

// Looped reports whether self-loops are permitted by policy.
func (g *Graph) Looped() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.allowLoops
}

// Connectance returns the ratio of realized directed links to all possible
// directed links between distinct taxa: E / (N(N−1)).
//
// Notes:
//   - Graphs with one vertex or none have connectance 0.
//   - Self-loops count toward E, so a looped graph can exceed 1 in theory.
//
// Complexity: O(1).
func (g *Graph) Connectance() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return connectance(len(g.vertices), len(g.edges))
}

// Stats returns a snapshot of counters and connectance.
// Complexity: O(E) for the observation total.
func (g *Graph) Stats() GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	st := GraphStats{
		VertexCount: len(g.vertices),
		EdgeCount:   len(g.edges),
		LoopCount:   g.loops,
		Connectance: connectance(len(g.vertices), len(g.edges)),
		AllowsLoops: g.allowLoops,
	}
	for _, e := range g.edgeOrder {
		st.Observations += e.Observations
	}

	return st
}

// Connectance computes E / (N(N−1)) for N nodes and E directed links,
// returning 0 when N ≤ 1.
func Connectance(nodes, edges int) float64 {
	return connectance(nodes, edges)
}

func connectance(n, e int) float64 {
	if n <= 1 {
		return 0
	}

	return float64(e) / float64(n*(n-1))
}
