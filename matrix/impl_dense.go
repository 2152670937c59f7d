// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Bridge to gonum/mat for linear algebra without re-implementing solvers.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Sum: O(r*c).

package matrix

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ---------- error context tags ----------

const (
	ctxAt    = "At"  // method tag used in error wrappers
	ctxSet   = "Set" // method tag used in error wrappers
	ctxApply = "Apply"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols); zero is allowed.
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf rejects NaN/Inf in Set when true (on by default).
type Dense struct {
	r, c           int
	data           []float64
	validateNaNInf bool
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Implementation:
//   - Stage 1: reject negative dimensions with ErrBadShape.
//   - Stage 2: allocate a zero-filled buffer (make() zero-fills deterministically).
//
// Notes:
//   - 0×0 and 0×c shapes are legal: an empty species set must still produce a matrix.
func NewDense(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: true,
	}, nil
}

// NewSquare is NewDense(n, n).
func NewSquare(n int) (*Dense, error) { return NewDense(n, n) }

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// indexOf maps (row,col) to a flat offset with bounds checking.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At returns the element at (row, col).
// Errors: ErrOutOfRange wrapped with coordinates.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set assigns v at (row, col).
// Errors: ErrOutOfRange; ErrNaNInf when the numeric guard is on and v is not finite.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy that preserves the numeric policy.
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{r: m.r, c: m.c, data: cp, validateNaNInf: m.validateNaNInf}
}

// Sum returns the sum of all entries.
func (m *Dense) Sum() float64 {
	var s float64
	for _, v := range m.data {
		s += v
	}

	return s
}

// RowSums returns Σ_j m[i][j] for each row i.
func (m *Dense) RowSums() []float64 {
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			out[i] += m.data[base+j]
		}
	}

	return out
}

// ColSums returns Σ_i m[i][j] for each column j.
func (m *Dense) ColSums() []float64 {
	out := make([]float64, m.c)
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			out[j] += m.data[base+j]
		}
	}

	return out
}

// Do visits every element in row-major order until f returns false.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return
			}
		}
	}
}

// Apply replaces every element with f(i, j, v), honoring the numeric guard.
// The matrix is left unchanged if any produced value is rejected.
func (m *Dense) Apply(f func(i, j int, v float64) float64) error {
	next := make([]float64, len(m.data))
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			v := f(i, j, m.data[base+j])
			if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return denseErrorf(ctxApply, i, j, ErrNaNInf)
			}
			next[base+j] = v
		}
	}
	m.data = next

	return nil
}

// RawRow returns a copy of row i.
func (m *Dense) RawRow(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf(ctxAt, i, 0, ErrOutOfRange)
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out, nil
}

// ToGonum copies m into a *mat.Dense for use with gonum solvers.
// gonum forbids zero-sized matrices, so empty shapes return ErrEmpty.
func (m *Dense) ToGonum() (*mat.Dense, error) {
	if m.r == 0 || m.c == 0 {
		return nil, fmt.Errorf("Dense.ToGonum(%dx%d): %w", m.r, m.c, ErrEmpty)
	}
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return mat.NewDense(m.r, m.c, cp), nil
}

// String renders the matrix row by row, e.g. "[0, 1]\n[0, 0]\n".
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString(_fmtRowOpen)
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
