// SPDX-License-Identifier: MIT

package adjacency

// Index is an insertion-ordered, immutable mapping label → [0, N).
//
// Invariants:
//   - Values are unique and contiguous over [0, Len()).
//   - Label(Lookup(x)) == x for every indexed x.
type Index struct {
	pos    map[string]int
	labels []string
}

func newIndex(capacity int) *Index {
	return &Index{
		pos:    make(map[string]int, capacity),
		labels: make([]string, 0, capacity),
	}
}

// add assigns the next integer to label if it is new and returns its index.
func (x *Index) add(label string) int {
	if i, ok := x.pos[label]; ok {
		return i
	}
	i := len(x.labels)
	x.pos[label] = i
	x.labels = append(x.labels, label)

	return i
}

// Lookup returns the index of label.
func (x *Index) Lookup(label string) (int, bool) {
	i, ok := x.pos[label]
	return i, ok
}

// Label returns the label at index i.
func (x *Index) Label(i int) (string, bool) {
	if i < 0 || i >= len(x.labels) {
		return "", false
	}

	return x.labels[i], true
}

// Len returns N, the number of distinct labels.
func (x *Index) Len() int { return len(x.labels) }

// Labels returns a copy of the labels in index order.
func (x *Index) Labels() []string {
	out := make([]string, len(x.labels))
	copy(out, x.labels)

	return out
}
