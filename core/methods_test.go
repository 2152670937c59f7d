// SPDX-License-Identifier: MIT
// Package core_test verifies core.Graph method-level contracts.
//
// Purpose:
//   - Lock in insertion-order determinism for Vertices/Edges/Successors.
//   - Validate loop policy, duplicate-link collapse and sentinel errors.

package core_test

import (
	"sync"
	"testing"

	"github.com/katalvlaran/foodweb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddVertex(t *testing.T) {
	t.Parallel()
	g := core.NewGraph()

	require.ErrorIs(t, g.AddVertex(""), core.ErrEmptyVertexID)
	require.NoError(t, g.AddVertex("Diatoms"))
	require.NoError(t, g.AddVertex("Diatoms")) // idempotent
	assert.True(t, g.HasVertex("Diatoms"))
	assert.False(t, g.HasVertex(""))
	assert.Equal(t, 1, g.VertexCount())
}

func TestGraph_VerticesInsertionOrder(t *testing.T) {
	t.Parallel()
	g := core.NewGraph()

	_, err := g.AddEdge("Seal", "Cod")
	require.NoError(t, err)
	require.NoError(t, g.AddVertex("Krill"))
	require.NoError(t, g.AddVertex("Seal"))
	_, err = g.AddEdge("Cod", "Krill")
	require.NoError(t, err)

	assert.Equal(t, []string{"Seal", "Cod", "Krill"}, g.Vertices())
	assert.Equal(t, 3, g.VertexCount())
}

func TestGraph_AddEdge_CollapsesRepeats(t *testing.T) {
	t.Parallel()
	g := core.NewGraph()

	id1, err := g.AddEdge("A", "B")
	require.NoError(t, err)
	id2, err := g.AddEdge("B", "C")
	require.NoError(t, err)
	id3, err := g.AddEdge("A", "B")
	require.NoError(t, err)

	assert.Equal(t, id1, id3, "repeated link keeps its ID")
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []string{"A", "B", "C"}, g.Vertices())

	e, err := g.Edge("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Observations)

	_, err = g.Edge("C", "A")
	require.ErrorIs(t, err, core.ErrEdgeNotFound)

	st := g.Stats()
	assert.Equal(t, 3, st.Observations)
	assert.Equal(t, 3, st.VertexCount)
}

func TestGraph_AddEdge_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []core.GraphOption
		from, to string
		wantErr  error
	}{
		{name: "EmptyFrom", from: "", to: "B", wantErr: core.ErrEmptyVertexID},
		{name: "EmptyTo", from: "A", to: "", wantErr: core.ErrEmptyVertexID},
		{name: "LoopRejected", from: "A", to: "A", wantErr: core.ErrLoopNotAllowed},
		{name: "LoopAllowed", opts: []core.GraphOption{core.WithLoops()}, from: "A", to: "A"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := core.NewGraph(tc.opts...)
			_, err := g.AddEdge(tc.from, tc.to)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 0, g.EdgeCount())
				return
			}
			require.NoError(t, err)
			assert.True(t, g.HasEdge(tc.from, tc.to))
		})
	}
}

func TestGraph_Neighborhood(t *testing.T) {
	t.Parallel()
	g := core.NewGraph(core.WithLoops(), core.WithCapacity(4))
	for _, p := range [][2]string{{"Seal", "Cod"}, {"Seal", "Krill"}, {"Cod", "Krill"}, {"Cod", "Cod"}} {
		_, err := g.AddEdge(p[0], p[1])
		require.NoError(t, err)
	}

	succ, err := g.Successors("Seal")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cod", "Krill"}, succ)

	pred, err := g.Predecessors("Krill")
	require.NoError(t, err)
	assert.Equal(t, []string{"Seal", "Cod"}, pred)

	in, out, err := g.Degree("Cod")
	require.NoError(t, err)
	assert.Equal(t, 2, in)  // Seal + itself
	assert.Equal(t, 2, out) // Krill + itself

	_, _, err = g.Degree("Orca")
	require.ErrorIs(t, err, core.ErrVertexNotFound)
	_, err = g.Successors("Orca")
	require.ErrorIs(t, err, core.ErrVertexNotFound)

	assert.Equal(t, 1, g.LoopCount())
	assert.True(t, g.Looped())

	edges := g.Edges()
	require.Len(t, edges, 4)
	assert.Equal(t, "e1", edges[0].ID)
	assert.Equal(t, "Cod", edges[3].From)
}

func TestConnectance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		nodes int
		edges int
		want  float64
	}{
		{"Empty", 0, 0, 0},
		{"Single", 1, 1, 0},
		{"Pair", 2, 1, 0.5},
		{"Triangle", 3, 2, 2.0 / 6.0},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, core.Connectance(tc.nodes, tc.edges), 1e-12, tc.name)
	}

	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B")
	_, _ = g.AddEdge("B", "C")
	assert.InDelta(t, 2.0/6.0, g.Connectance(), 1e-12)
}

func TestGraph_ConcurrentReads(t *testing.T) {
	t.Parallel()
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, g.HasEdge("A", "B"))
			assert.Len(t, g.Vertices(), 2)
		}()
	}
	wg.Wait()
}
