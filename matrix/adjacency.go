// SPDX-License-Identifier: MIT
// Package matrix - binary adjacency bound to a species label index.
//
// Contracts:
//   1) Entries are 0/1: a repeated link never pushes an entry past 1.
//   2) Row = consumer, column = resource; self-loops set the diagonal.
//   3) Row/col order is the caller-supplied vertex order (or the graph's insertion
//      order); queries are label keyed so callers never rely on raw positions.

package matrix

import (
	"fmt"

	"github.com/katalvlaran/foodweb/core"
)

// linkWeight is the value written for a present link.
const linkWeight = 1.0

// AdjacencyMatrix wraps a square Dense as a food-web adjacency representation.
// VertexIndex maps label → row/col in Mat; vertexByIndex is its inverse.
type AdjacencyMatrix struct {
	Mat           *Dense
	VertexIndex   map[string]int
	vertexByIndex []string
}

// NewAdjacencyMatrix builds a binary adjacency from g.
//
// Implementation:
//   - Stage 1: validate g (ErrGraphNil) and resolve the vertex order.
//   - Stage 2: verify order is a permutation of g's vertices.
//   - Stage 3: allocate V×V and write 1 for every edge From→To.
//
// Inputs:
//   - g: source graph (non-nil).
//   - order: row/col order; nil means g.Vertices() (insertion order).
//
// Errors:
//   - ErrGraphNil, ErrDimensionMismatch (order length ≠ |V|),
//     ErrDuplicateVertex, ErrUnknownVertex.
//
// Complexity:
//   - Time O(V² + E), Space O(V²).
func NewAdjacencyMatrix(g *core.Graph, order []string) (*AdjacencyMatrix, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if order == nil {
		order = g.Vertices()
	}
	if len(order) != g.VertexCount() {
		return nil, fmt.Errorf("NewAdjacencyMatrix: order has %d labels, graph has %d vertices: %w",
			len(order), g.VertexCount(), ErrDimensionMismatch)
	}

	idx := make(map[string]int, len(order))
	rev := make([]string, len(order))
	for i, id := range order {
		if _, dup := idx[id]; dup {
			return nil, fmt.Errorf("NewAdjacencyMatrix: %q: %w", id, ErrDuplicateVertex)
		}
		if !g.HasVertex(id) {
			return nil, fmt.Errorf("NewAdjacencyMatrix: %q: %w", id, ErrUnknownVertex)
		}
		idx[id] = i
		rev[i] = id
	}

	mat, err := NewSquare(len(order))
	if err != nil {
		return nil, err
	}
	for _, e := range g.Edges() {
		if err = mat.Set(idx[e.From], idx[e.To], linkWeight); err != nil {
			return nil, err
		}
	}

	return &AdjacencyMatrix{Mat: mat, VertexIndex: idx, vertexByIndex: rev}, nil
}

// VertexCount returns the matrix dimension.
func (am *AdjacencyMatrix) VertexCount() int { return len(am.vertexByIndex) }

// Labels returns the labels in row/col order.
func (am *AdjacencyMatrix) Labels() []string {
	out := make([]string, len(am.vertexByIndex))
	copy(out, am.vertexByIndex)

	return out
}

// Label returns the label at row/col i.
func (am *AdjacencyMatrix) Label(i int) (string, error) {
	if i < 0 || i >= len(am.vertexByIndex) {
		return "", fmt.Errorf("AdjacencyMatrix.Label(%d): %w", i, ErrOutOfRange)
	}

	return am.vertexByIndex[i], nil
}

// Has reports whether consumer → resource is a link.
// Errors: ErrUnknownVertex if either label is not indexed.
func (am *AdjacencyMatrix) Has(consumer, resource string) (bool, error) {
	i, ok := am.VertexIndex[consumer]
	if !ok {
		return false, fmt.Errorf("AdjacencyMatrix.Has(%q): %w", consumer, ErrUnknownVertex)
	}
	j, ok := am.VertexIndex[resource]
	if !ok {
		return false, fmt.Errorf("AdjacencyMatrix.Has(%q): %w", resource, ErrUnknownVertex)
	}
	v, err := am.Mat.At(i, j)
	if err != nil {
		return false, err
	}

	return v != 0, nil
}

// Neighbors lists the resources of consumer in column order.
func (am *AdjacencyMatrix) Neighbors(consumer string) ([]string, error) {
	i, ok := am.VertexIndex[consumer]
	if !ok {
		return nil, fmt.Errorf("AdjacencyMatrix.Neighbors(%q): %w", consumer, ErrUnknownVertex)
	}
	row, err := am.Mat.RawRow(i)
	if err != nil {
		return nil, err
	}
	var out []string
	for j, v := range row {
		if v != 0 {
			out = append(out, am.vertexByIndex[j])
		}
	}

	return out, nil
}

// Links returns every (consumer, resource) pair with entry 1, row-major.
func (am *AdjacencyMatrix) Links() [][2]string {
	var out [][2]string
	am.Mat.Do(func(i, j int, v float64) bool {
		if v != 0 {
			out = append(out, [2]string{am.vertexByIndex[i], am.vertexByIndex[j]})
		}
		return true
	})

	return out
}

// LinkCount returns the number of non-zero entries.
func (am *AdjacencyMatrix) LinkCount() int {
	return int(am.Mat.Sum())
}

// ToCSC returns the sparse form of the adjacency.
func (am *AdjacencyMatrix) ToCSC() (*CSC, error) {
	return DenseToCSC(am.Mat)
}
