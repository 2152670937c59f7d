// SPDX-License-Identifier: MIT

package matfile_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/katalvlaran/foodweb/matfile"
	"github.com/katalvlaran/foodweb/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var le = binary.LittleEndian

var created = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

type element struct {
	typ  uint32
	data []byte
}

// nextElement decodes one tagged element (normal or packed small form).
func nextElement(t *testing.T, b []byte) (element, []byte) {
	t.Helper()
	require.GreaterOrEqual(t, len(b), 8)
	w := le.Uint32(b)
	if n := w >> 16; n != 0 {
		require.LessOrEqual(t, n, uint32(4))
		return element{typ: w & 0xffff, data: b[4 : 4+n]}, b[8:]
	}
	n := int(le.Uint32(b[4:]))
	padded := (n + 7) / 8 * 8
	require.GreaterOrEqual(t, len(b), 8+padded)
	return element{typ: w, data: b[8 : 8+n]}, b[8+padded:]
}

type array struct {
	class uint32
	nzmax uint32
	dims  []int32
	name  string
	rest  []byte
}

func parseArray(t *testing.T, el element) array {
	t.Helper()
	require.Equal(t, uint32(14), el.typ, "miMATRIX")
	require.Zero(t, len(el.data)%8, "matrix body is 8-byte aligned")

	flags, rest := nextElement(t, el.data)
	require.Equal(t, uint32(6), flags.typ)
	dims, rest := nextElement(t, rest)
	require.Equal(t, uint32(5), dims.typ)
	name, rest := nextElement(t, rest)
	require.Equal(t, uint32(1), name.typ)

	a := array{
		class: le.Uint32(flags.data) & 0xff,
		nzmax: le.Uint32(flags.data[4:]),
		name:  string(name.data),
		rest:  rest,
	}
	for i := 0; i < len(dims.data); i += 4 {
		a.dims = append(a.dims, int32(le.Uint32(dims.data[i:])))
	}
	return a
}

func ints(el element) []int32 {
	out := make([]int32, len(el.data)/4)
	for i := range out {
		out[i] = int32(le.Uint32(el.data[4*i:]))
	}
	return out
}

func doubles(el element) []float64 {
	out := make([]float64, len(el.data)/8)
	for i := range out {
		out[i] = math.Float64frombits(le.Uint64(el.data[8*i:]))
	}
	return out
}

func chars(t *testing.T, a array) string {
	t.Helper()
	require.Equal(t, uint32(4), a.class, "mxCHAR")
	el, _ := nextElement(t, a.rest)
	require.Equal(t, uint32(4), el.typ, "miUINT16")
	u := make([]uint16, len(el.data)/2)
	for i := range u {
		u[i] = le.Uint16(el.data[2*i:])
	}
	return string(utf16.Decode(u))
}

func dense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(len(rows), len(rows[0]))
	require.NoError(t, err)
	for i, r := range rows {
		for j, v := range r {
			require.NoError(t, m.Set(i, j, v))
		}
	}
	return m
}

func TestHeader(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	enc := matfile.NewEncoder(&buf, matfile.WithCreated(created))
	require.NoError(t, enc.Close())

	h := buf.Bytes()
	require.Len(t, h, 128)
	assert.True(t, bytes.HasPrefix(h, []byte("MATLAB 5.0 MAT-file, Platform: GLNXA64, Created on: ")))
	assert.Contains(t, string(h[:116]), "Oct 19 10:00:00 2026")
	assert.Equal(t, byte(' '), h[115], "text padded with spaces")
	assert.Equal(t, uint16(0x0100), le.Uint16(h[124:]))
	assert.Equal(t, []byte("IM"), h[126:128])

	again := matfile.NewEncoder(&bytes.Buffer{}, matfile.WithCreated(created))
	assert.Equal(t, h, again.Header(), "fixed timestamp gives identical headers")
}

func TestWriteSparse(t *testing.T) {
	t.Parallel()
	csc, err := matrix.DenseToCSC(dense(t, [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{0, 0, 0},
	}))
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := matfile.NewEncoder(&buf, matfile.WithCreated(created))
	require.NoError(t, enc.WriteSparse("net", csc))

	el, rest := nextElement(t, buf.Bytes()[128:])
	assert.Empty(t, rest)
	a := parseArray(t, el)
	assert.Equal(t, uint32(5), a.class, "mxSPARSE")
	assert.Equal(t, uint32(2), a.nzmax)
	assert.Equal(t, []int32{3, 3}, a.dims)
	assert.Equal(t, "net", a.name)

	ir, r := nextElement(t, a.rest)
	jc, r := nextElement(t, r)
	pr, r := nextElement(t, r)
	assert.Empty(t, r)
	assert.Equal(t, []int32{0, 1}, ints(ir))
	assert.Equal(t, []int32{0, 0, 1, 2}, ints(jc))
	assert.Equal(t, []float64{1, 1}, doubles(pr))
}

func TestWriteSparse_Empty(t *testing.T) {
	t.Parallel()
	m, err := matrix.NewDense(0, 0)
	require.NoError(t, err)
	csc, err := matrix.DenseToCSC(m)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, matfile.NewEncoder(&buf, matfile.WithCreated(created)).WriteSparse("net", csc))

	el, _ := nextElement(t, buf.Bytes()[128:])
	a := parseArray(t, el)
	assert.Equal(t, uint32(1), a.nzmax)
	assert.Equal(t, []int32{0, 0}, a.dims)
	ir, r := nextElement(t, a.rest)
	jc, _ := nextElement(t, r)
	assert.Empty(t, ir.data)
	assert.Equal(t, []int32{0}, ints(jc), "packed small element")
}

func TestWriteDense_ColumnMajor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	enc := matfile.NewEncoder(&buf, matfile.WithCreated(created))
	require.NoError(t, enc.WriteDense("net", dense(t, [][]float64{{1, 2, 3}, {4, 5, 6}})))

	el, _ := nextElement(t, buf.Bytes()[128:])
	a := parseArray(t, el)
	assert.Equal(t, uint32(6), a.class, "mxDOUBLE")
	assert.Equal(t, []int32{2, 3}, a.dims)
	pr, _ := nextElement(t, a.rest)
	assert.Equal(t, uint32(9), pr.typ)
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, doubles(pr))
}

func TestWriteStrings(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	enc := matfile.NewEncoder(&buf, matfile.WithCreated(created))
	require.NoError(t, enc.WriteStrings("species", []string{"Seal", "Kelp gull", "Ö"}))
	require.NoError(t, enc.WriteString("web", "Weddell Sea"))

	el, rest := nextElement(t, buf.Bytes()[128:])
	cell := parseArray(t, el)
	assert.Equal(t, uint32(1), cell.class, "mxCELL")
	assert.Equal(t, []int32{1, 3}, cell.dims)
	assert.Equal(t, "species", cell.name)

	var got []string
	r := cell.rest
	for len(r) > 0 {
		var child element
		child, r = nextElement(t, r)
		a := parseArray(t, child)
		assert.Empty(t, a.name)
		got = append(got, chars(t, a))
	}
	assert.Equal(t, []string{"Seal", "Kelp gull", "Ö"}, got)

	el, rest = nextElement(t, rest)
	assert.Empty(t, rest)
	web := parseArray(t, el)
	assert.Equal(t, "web", web.name)
	assert.Equal(t, []int32{1, 11}, web.dims)
	assert.Equal(t, "Weddell Sea", chars(t, web))
}

func TestNames(t *testing.T) {
	t.Parallel()
	enc := matfile.NewEncoder(&bytes.Buffer{})

	for _, bad := range []string{"", "1net", "net-2", "_x", string(make([]byte, 64))} {
		require.ErrorIs(t, enc.WriteString(bad, "x"), matfile.ErrBadName, "%q", bad)
	}
	require.NoError(t, enc.WriteString("a_1", "x"))
	require.ErrorIs(t, enc.WriteString("a_1", "y"), matfile.ErrBadName)

	require.ErrorIs(t, enc.WriteSparse("net", nil), matfile.ErrNilValue)
	require.ErrorIs(t, enc.WriteDense("net", nil), matfile.ErrNilValue)
}
