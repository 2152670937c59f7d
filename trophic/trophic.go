// SPDX-License-Identifier: MIT

// Package trophic derives trophic structure from a food-web graph whose links
// run consumer → resource.
//
// Positions:
//   - basal: no resources (self-loops ignored);
//   - top: has resources, no consumers;
//   - intermediate: has both.
//
// Two level measures are offered:
//   - ShortestLevels: basal = 1, consumer = 1 + min level of its resources,
//     found by a multi-source breadth-first walk from all basal species along
//     reversed links. Species not reachable from any basal species keep 0.
//   - PreyAveraged: TL_i = 1 + mean TL of i's resources, solved as the linear
//     system (I − D⁻¹A)·TL = 1 with gonum.
package trophic

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/foodweb/core"
	"github.com/katalvlaran/foodweb/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrGraphNil is returned when a nil graph is passed.
	ErrGraphNil = errors.New("trophic: graph is nil")

	// ErrSingular is returned by PreyAveraged when some species have no
	// path to a basal species, leaving the level system without a solution.
	ErrSingular = errors.New("trophic: level system is singular")
)

// Position is a species' place in the web.
type Position string

const (
	Basal        Position = "basal"
	Intermediate Position = "intermediate"
	Top          Position = "top"
)

// Levels is the outcome of ShortestLevels.
type Levels struct {
	// Level maps every species to its shortest trophic level; 0 = unassigned.
	Level map[string]int
	// Order lists assigned species in visit order (non-decreasing level).
	Order []string
	// Position classifies every species.
	Position map[string]Position
}

// Of returns the level of label (0 when unknown or unassigned).
func (l *Levels) Of(label string) int { return l.Level[label] }

// Summary counts positions and the deepest assigned level.
type Summary struct {
	Species      int
	Basal        int
	Intermediate int
	Top          int
	MaxLevel     int
	Unassigned   int
}

type queueItem struct {
	id    string
	level int
}

// walker carries the state of one multi-source traversal.
type walker struct {
	g     *core.Graph
	ctx   context.Context
	queue []queueItem
	res   *Levels
}

// ShortestLevels assigns shortest trophic levels.
//
// Implementation:
//   - Stage 1: classify every vertex; seed the queue with basal species at level 1.
//   - Stage 2: pop a resource, enqueue each unseen consumer at level+1.
//   - Stage 3: vertices never reached keep level 0.
//
// The context is checked once per dequeued species.
//
// Complexity: O(V + E).
func ShortestLevels(ctx context.Context, g *core.Graph) (*Levels, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	vs := g.Vertices()
	w := &walker{
		g:     g,
		ctx:   ctx,
		queue: make([]queueItem, 0, len(vs)),
		res: &Levels{
			Level:    make(map[string]int, len(vs)),
			Order:    make([]string, 0, len(vs)),
			Position: make(map[string]Position, len(vs)),
		},
	}

	for _, v := range vs {
		res, err := others(g.Successors, v)
		if err != nil {
			return nil, err
		}
		con, err := others(g.Predecessors, v)
		if err != nil {
			return nil, err
		}
		switch {
		case len(res) == 0:
			w.res.Position[v] = Basal
		case len(con) == 0:
			w.res.Position[v] = Top
		default:
			w.res.Position[v] = Intermediate
		}
		w.res.Level[v] = 0
	}
	for _, v := range vs {
		if w.res.Position[v] == Basal {
			w.enqueue(v, 1)
		}
	}

	return w.res, w.loop()
}

func (w *walker) enqueue(id string, level int) {
	w.res.Level[id] = level
	w.queue = append(w.queue, queueItem{id: id, level: level})
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)

		consumers, err := others(w.g.Predecessors, item.id)
		if err != nil {
			return err
		}
		for _, c := range consumers {
			if w.res.Level[c] == 0 {
				w.enqueue(c, item.level+1)
			}
		}
	}

	return nil
}

// others returns the neighbors of id other than id itself.
func others(nbrs func(string) ([]string, error), id string) ([]string, error) {
	all, err := nbrs(id)
	if err != nil {
		return nil, fmt.Errorf("trophic: %w", err)
	}
	out := all[:0:0]
	for _, n := range all {
		if n != id {
			out = append(out, n)
		}
	}

	return out, nil
}

// Summarize runs ShortestLevels and counts positions.
func Summarize(ctx context.Context, g *core.Graph) (Summary, error) {
	lv, err := ShortestLevels(ctx, g)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Species: len(lv.Level)}
	for id, p := range lv.Position {
		switch p {
		case Basal:
			s.Basal++
		case Top:
			s.Top++
		case Intermediate:
			s.Intermediate++
		}
		l := lv.Level[id]
		if l == 0 {
			s.Unassigned++
		}
		if l > s.MaxLevel {
			s.MaxLevel = l
		}
	}

	return s, nil
}

// PreyAveraged solves for prey-averaged trophic levels, keyed by label.
// Self-loops are ignored. An empty graph yields an empty map.
//
// Errors: ErrGraphNil, ErrSingular.
//
// Complexity: O(V³) for the dense solve.
func PreyAveraged(g *core.Graph) (map[string]float64, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	am, err := matrix.NewAdjacencyMatrix(g, nil)
	if err != nil {
		return nil, fmt.Errorf("trophic: %w", err)
	}
	n := am.VertexCount()
	out := make(map[string]float64, n)
	if n == 0 {
		return out, nil
	}

	a, err := am.Mat.ToGonum()
	if err != nil {
		return nil, fmt.Errorf("trophic: %w", err)
	}
	sys := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 0)
		deg := mat.Sum(a.RowView(i))
		for j := 0; j < n; j++ {
			v := 0.0
			if deg > 0 {
				v = -a.At(i, j) / deg
			}
			if i == j {
				v++
			}
			sys.Set(i, j, v)
		}
	}
	ones := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		ones.SetVec(i, 1)
	}

	var tl mat.VecDense
	if err = tl.SolveVec(sys, ones); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	for i, label := range am.Labels() {
		out[label] = tl.AtVec(i)
	}

	return out, nil
}
