// SPDX-License-Identifier: MIT
// Package matrix - compressed sparse column (CSC) form.
//
// Purpose:
//   - Compact export form for adjacency, laid out exactly as MATLAB stores
//     sparse arrays: row indices (RowIdx), column pointers (ColPtr), values.
//
// Determinism:
//   - Columns are scanned left to right and rows top to bottom, so RowIdx is
//     sorted within each column.

package matrix

import "fmt"

// CSC is a compressed-sparse-column matrix.
//
// Invariants:
//   - len(ColPtr) == Cols+1, ColPtr[0] == 0, ColPtr[Cols] == NNZ().
//   - len(RowIdx) == len(Values) == NNZ().
//   - Values contains no explicit zeros.
type CSC struct {
	NumRows, NumCols int
	ColPtr           []int
	RowIdx           []int
	Values           []float64
}

// DenseToCSC compresses m, dropping zero entries.
// Complexity: O(r*c).
func DenseToCSC(m *Dense) (*CSC, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	out := &CSC{
		NumRows: m.r,
		NumCols: m.c,
		ColPtr:  make([]int, m.c+1),
	}
	for j := 0; j < m.c; j++ {
		for i := 0; i < m.r; i++ {
			v := m.data[i*m.c+j]
			if v == 0 {
				continue
			}
			out.RowIdx = append(out.RowIdx, i)
			out.Values = append(out.Values, v)
		}
		out.ColPtr[j+1] = len(out.Values)
	}

	return out, nil
}

// NNZ returns the number of stored (non-zero) entries.
func (s *CSC) NNZ() int { return len(s.Values) }

// At returns the (i,j) entry, 0 when not stored.
// Complexity: O(nnz in column j).
func (s *CSC) At(i, j int) (float64, error) {
	if i < 0 || i >= s.NumRows || j < 0 || j >= s.NumCols {
		return 0, fmt.Errorf("CSC.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	for k := s.ColPtr[j]; k < s.ColPtr[j+1]; k++ {
		if s.RowIdx[k] == i {
			return s.Values[k], nil
		}
	}

	return 0, nil
}

// ToDense expands the sparse form back into a Dense.
func (s *CSC) ToDense() (*Dense, error) {
	d, err := NewDense(s.NumRows, s.NumCols)
	if err != nil {
		return nil, err
	}
	for j := 0; j < s.NumCols; j++ {
		for k := s.ColPtr[j]; k < s.ColPtr[j+1]; k++ {
			if err = d.Set(s.RowIdx[k], j, s.Values[k]); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}
