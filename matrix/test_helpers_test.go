// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/foodweb/core"
	"github.com/katalvlaran/foodweb/matrix"
)

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// MustGraph builds a looped graph from (consumer, resource) pairs.
func MustGraph(t *testing.T, pairs ...[2]string) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithLoops())
	for _, p := range pairs {
		if _, err := g.AddEdge(p[0], p[1]); err != nil {
			t.Fatalf("AddEdge(%q,%q): %v", p[0], p[1], err)
		}
	}

	return g
}
