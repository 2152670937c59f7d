// SPDX-License-Identifier: MIT

package adjacency

import (
	"github.com/katalvlaran/foodweb/core"
	"github.com/katalvlaran/foodweb/matrix"
)

// Role classifies a species by the sides it appears on.
type Role string

const (
	RoleConsumer         Role = "consumer"
	RoleResource         Role = "resource"
	RoleConsumerResource Role = "consumer-resource"
)

func roleOf(isConsumer, isResource bool) Role {
	switch {
	case isConsumer && isResource:
		return RoleConsumerResource
	case isConsumer:
		return RoleConsumer
	default:
		return RoleResource
	}
}

// Metrics summarizes one food web.
type Metrics struct {
	Nodes       int     // distinct species
	Edges       int     // distinct links
	Loops       int     // self-loops among Edges
	Connectance float64 // Edges / (Nodes(Nodes−1)), 0 when Nodes ≤ 1
	Dropped     int     // records discarded for a missing label
}

// Result holds everything Build derived from one interaction set.
type Result struct {
	index     *Index
	graph     *core.Graph
	adj       *matrix.AdjacencyMatrix
	roles     []Role
	dropped   int
	discovery Discovery
}

// Index returns the species index.
func (r *Result) Index() *Index { return r.index }

// Graph returns the label-keyed food-web graph.
func (r *Result) Graph() *core.Graph { return r.graph }

// Matrix returns the integer-indexed 0/1 adjacency (row = consumer).
func (r *Result) Matrix() *matrix.AdjacencyMatrix { return r.adj }

// Discovery returns the order used to assign indices.
func (r *Result) Discovery() Discovery { return r.discovery }

// Dropped returns the number of malformed records discarded.
func (r *Result) Dropped() int { return r.dropped }

// Adjacent reports whether consumer was observed feeding on resource.
// Unknown labels are simply not adjacent.
func (r *Result) Adjacent(consumer, resource string) bool {
	return r.graph.HasEdge(consumer, resource)
}

// Roles returns the role of each species, aligned with the index.
func (r *Result) Roles() []Role {
	out := make([]Role, len(r.roles))
	copy(out, r.roles)

	return out
}

// RoleOf returns the role of one species.
func (r *Result) RoleOf(label string) (Role, bool) {
	i, ok := r.index.Lookup(label)
	if !ok {
		return "", false
	}

	return r.roles[i], true
}

// Metrics returns node/edge counts and connectance.
func (r *Result) Metrics() Metrics {
	st := r.graph.Stats()

	return Metrics{
		Nodes:       st.VertexCount,
		Edges:       st.EdgeCount,
		Loops:       st.LoopCount,
		Connectance: st.Connectance,
		Dropped:     r.dropped,
	}
}
