// SPDX-License-Identifier: MIT

// Package adjacency converts (consumer, resource) interaction records into a
// species index and a binary directed adjacency over that index.
//
// Pipeline:
//   - Stage 1: drop malformed records (a missing label on either side) BEFORE any
//     index is assigned, so the index and the adjacency always describe the same
//     species set.
//   - Stage 2: discover species in the configured order and assign indices.
//   - Stage 3: collect links keyed by label pair in a core.Graph (repeats collapse,
//     self-loops allowed).
//   - Stage 4: materialize the label-keyed relation into a dense 0/1 matrix whose
//     row/col order is the species index.
//
// Discovery order only changes which integer a label receives; the adjacency
// relation, the role classification and the metrics are label keyed and thus
// identical for every order.
package adjacency

import (
	"fmt"

	"github.com/katalvlaran/foodweb/core"
	"github.com/katalvlaran/foodweb/matrix"
	"github.com/katalvlaran/foodweb/table"
)

// Interaction is one observed feeding link: Consumer eats Resource.
type Interaction struct {
	Consumer string
	Resource string
}

// Valid reports whether both labels are present.
func (in Interaction) Valid() bool {
	return !table.IsMissing(in.Consumer) && !table.IsMissing(in.Resource)
}

// Discovery selects the sequence in which species receive indices.
type Discovery int

const (
	// Concatenated indexes every consumer label (row order) and then every
	// resource label (row order).
	Concatenated Discovery = iota
	// Interleaved indexes consumer then resource, row by row.
	Interleaved
)

// String implements fmt.Stringer.
func (d Discovery) String() string {
	switch d {
	case Concatenated:
		return "concatenated"
	case Interleaved:
		return "interleaved"
	default:
		return fmt.Sprintf("Discovery(%d)", int(d))
	}
}

// ParseDiscovery maps "concatenated" / "interleaved" to a Discovery.
func ParseDiscovery(s string) (Discovery, error) {
	switch s {
	case "", "concatenated":
		return Concatenated, nil
	case "interleaved":
		return Interleaved, nil
	default:
		return 0, fmt.Errorf("adjacency: unknown discovery order %q", s)
	}
}

// Option configures Build.
type Option func(*options)

type options struct {
	discovery Discovery
}

// WithDiscovery sets the species discovery order (default Concatenated).
func WithDiscovery(d Discovery) Option {
	return func(o *options) { o.discovery = d }
}

// Build produces the species index and adjacency for records.
//
// Behavior highlights:
//   - Malformed records are dropped and counted (Result.Dropped).
//   - Empty input (or all records malformed) yields N = 0 and a 0×0 matrix.
//   - Pure: records is not modified.
//
// Errors:
//   - Only matrix materialization failures, which do not occur for any input
//     that passed Stage 1; callers may treat a non-nil error as a bug.
//
// Complexity:
//   - Time O(R + N²), Space O(N²) for R records over N species.
func Build(records []Interaction, opts ...Option) (*Result, error) {
	o := options{discovery: Concatenated}
	for _, opt := range opts {
		opt(&o)
	}

	valid := make([]Interaction, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, r)
		}
	}

	idx := discover(valid, o.discovery)

	g := core.NewGraph(core.WithLoops(), core.WithCapacity(idx.Len()))
	for _, label := range idx.labels {
		if err := g.AddVertex(label); err != nil {
			return nil, fmt.Errorf("adjacency: %w", err)
		}
	}
	consumers := make(map[string]struct{})
	resources := make(map[string]struct{})
	for _, r := range valid {
		if _, err := g.AddEdge(r.Consumer, r.Resource); err != nil {
			return nil, fmt.Errorf("adjacency: %w", err)
		}
		consumers[r.Consumer] = struct{}{}
		resources[r.Resource] = struct{}{}
	}

	am, err := matrix.NewAdjacencyMatrix(g, idx.labels)
	if err != nil {
		return nil, fmt.Errorf("adjacency: %w", err)
	}

	roles := make([]Role, idx.Len())
	for i, label := range idx.labels {
		_, c := consumers[label]
		_, r := resources[label]
		roles[i] = roleOf(c, r)
	}

	return &Result{
		index:     idx,
		graph:     g,
		adj:       am,
		roles:     roles,
		dropped:   len(records) - len(valid),
		discovery: o.discovery,
	}, nil
}

// discover assigns indices in the requested order.
func discover(records []Interaction, d Discovery) *Index {
	idx := newIndex(2 * len(records))
	switch d {
	case Interleaved:
		for _, r := range records {
			idx.add(r.Consumer)
			idx.add(r.Resource)
		}
	default:
		for _, r := range records {
			idx.add(r.Consumer)
		}
		for _, r := range records {
			idx.add(r.Resource)
		}
	}

	return idx
}

// FromTable extracts interactions from two named columns of t, preserving row
// order. Missing labels are kept so that Build can count them as dropped.
func FromTable(t *table.Table, consumerCol, resourceCol string) ([]Interaction, error) {
	ci, err := t.Col(consumerCol)
	if err != nil {
		return nil, fmt.Errorf("adjacency: consumer column: %w", err)
	}
	ri, err := t.Col(resourceCol)
	if err != nil {
		return nil, fmt.Errorf("adjacency: resource column: %w", err)
	}
	out := make([]Interaction, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = Interaction{Consumer: row[ci], Resource: row[ri]}
	}

	return out, nil
}
