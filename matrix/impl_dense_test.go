// SPDX-License-Identifier: MIT
// Package matrix_test covers Dense accessors, the numeric guard and CSC round trips.

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/foodweb/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDense_Shapes(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(0, 0)
	require.NoError(t, err, "0x0 is a legal empty adjacency")
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, "", m.String())

	_, err = matrix.NewDense(-1, 2)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestDense_AtSet(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 2, 3)

	require.NoError(t, m.Set(1, 2, 4.5))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

func TestDense_CloneIsIndependent(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 2, 2)
	require.NoError(t, m.Set(0, 1, 1))

	c := m.Clone()
	require.NoError(t, c.Set(0, 1, 7))

	v, _ := m.At(0, 1)
	assert.Equal(t, 1.0, v)
}

func TestDense_Sums(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 2, 2)
	require.NoError(t, m.Set(0, 0, 1))
	require.NoError(t, m.Set(0, 1, 2))
	require.NoError(t, m.Set(1, 1, 3))

	assert.Equal(t, 6.0, m.Sum())
	assert.Equal(t, []float64{3, 3}, m.RowSums())
	assert.Equal(t, []float64{1, 5}, m.ColSums())
	assert.Equal(t, "[1, 2]\n[0, 3]\n", m.String())

	require.NoError(t, m.Apply(func(_, _ int, v float64) float64 { return v * 2 }))
	assert.Equal(t, 12.0, m.Sum())
	require.ErrorIs(t, m.Apply(func(_, _ int, _ float64) float64 { return math.NaN() }), matrix.ErrNaNInf)
	assert.Equal(t, 12.0, m.Sum(), "failed Apply leaves data untouched")
}

func TestDense_ToGonum(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 2, 2)
	require.NoError(t, m.Set(1, 0, 3))

	g, err := m.ToGonum()
	require.NoError(t, err)
	assert.Equal(t, 3.0, g.At(1, 0))

	_, err = MustDense(t, 0, 0).ToGonum()
	require.ErrorIs(t, err, matrix.ErrEmpty)
}

func TestCSC_RoundTrip(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 3, 3)
	require.NoError(t, m.Set(0, 1, 1))
	require.NoError(t, m.Set(2, 1, 1))
	require.NoError(t, m.Set(1, 2, 1))

	s, err := matrix.DenseToCSC(m)
	require.NoError(t, err)
	assert.Equal(t, 3, s.NNZ())
	assert.Equal(t, []int{0, 0, 2, 3}, s.ColPtr)
	assert.Equal(t, []int{0, 2, 1}, s.RowIdx)

	v, err := s.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = s.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	_, err = s.At(3, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	back, err := s.ToDense()
	require.NoError(t, err)
	assert.Equal(t, m.String(), back.String())

	_, err = matrix.DenseToCSC(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestCSC_Empty(t *testing.T) {
	t.Parallel()
	s, err := matrix.DenseToCSC(MustDense(t, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, s.NNZ())
	assert.Equal(t, []int{0}, s.ColPtr)
}
