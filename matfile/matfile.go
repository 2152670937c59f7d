// SPDX-License-Identifier: MIT

// Package matfile writes MATLAB Level-5 MAT-files (uncompressed, little-endian).
//
// Supported variables:
//   - sparse double matrices (from matrix.CSC),
//   - dense double matrices (from matrix.Dense, stored column-major),
//   - char row vectors (UTF-16),
//   - 1×N cell rows of char vectors.
//
// Layout reference: "MAT-File Format", MathWorks, Level 5 chapter.
// Every data element is an 8-byte tag (type, byte count) followed by its
// payload padded to a multiple of 8; payloads of at most 4 bytes use the
// packed small-element form (count and type in one word, data in the next).
package matfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
	"unicode/utf16"

	"github.com/katalvlaran/foodweb/matrix"
)

// Data element types.
const (
	miINT8   uint32 = 1
	miUINT16 uint32 = 4
	miINT32  uint32 = 5
	miUINT32 uint32 = 6
	miDOUBLE uint32 = 9
	miMATRIX uint32 = 14
)

// Array classes.
const (
	mxCELL   uint32 = 1
	mxCHAR   uint32 = 4
	mxSPARSE uint32 = 5
	mxDOUBLE uint32 = 6
)

const (
	headerLen     = 128
	headerTextLen = 116
	version       = 0x0100
	maxNameLen    = 63
)

var order = binary.LittleEndian

var (
	// ErrBadName is returned for an empty or over-long variable name, or one
	// that is not a MATLAB identifier.
	ErrBadName = errors.New("matfile: invalid variable name")

	// ErrNilValue is returned when a nil matrix is passed.
	ErrNilValue = errors.New("matfile: nil value")
)

// Option configures an Encoder.
type Option func(*Encoder)

// WithCreated fixes the timestamp printed in the header text.
func WithCreated(t time.Time) Option {
	return func(e *Encoder) { e.created = t }
}

// WithPlatform overrides the platform tag printed in the header text.
func WithPlatform(p string) Option {
	return func(e *Encoder) { e.platform = p }
}

// Encoder writes a header followed by named variables.
// The header is emitted before the first variable (or by Close).
type Encoder struct {
	w        io.Writer
	created  time.Time
	platform string
	started  bool
	names    map[string]struct{}
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{w: w, created: time.Now(), platform: "GLNXA64", names: make(map[string]struct{})}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Header returns the 128-byte file header the Encoder writes.
func (e *Encoder) Header() []byte {
	h := make([]byte, headerLen)
	text := fmt.Sprintf("MATLAB 5.0 MAT-file, Platform: %s, Created on: %s",
		e.platform, e.created.Format("Mon Jan _2 15:04:05 2006"))
	n := copy(h[:headerTextLen], text)
	for i := n; i < headerTextLen; i++ {
		h[i] = ' '
	}
	// bytes 116..123: subsystem data offset, unused.
	order.PutUint16(h[124:], version)
	h[126], h[127] = 'I', 'M'

	return h
}

func (e *Encoder) start() error {
	if e.started {
		return nil
	}
	e.started = true
	_, err := e.w.Write(e.Header())

	return err
}

// Close writes the header if no variable was written. It does not close w.
func (e *Encoder) Close() error { return e.start() }

// WriteSparse stores m as a sparse double matrix.
func (e *Encoder) WriteSparse(name string, m *matrix.CSC) error {
	if m == nil {
		return fmt.Errorf("WriteSparse(%q): %w", name, ErrNilValue)
	}
	var body bytes.Buffer
	nnz := m.NNZ()
	nzmax := nnz
	if nzmax == 0 {
		nzmax = 1
	}
	writeArrayHeader(&body, mxSPARSE, uint32(nzmax), []int{m.NumRows, m.NumCols}, name)
	writeElement(&body, miINT32, int32s(m.RowIdx))
	writeElement(&body, miINT32, int32s(m.ColPtr))
	writeElement(&body, miDOUBLE, float64s(m.Values))

	return e.writeVar(name, body.Bytes())
}

// WriteDense stores m as a full double matrix.
func (e *Encoder) WriteDense(name string, m *matrix.Dense) error {
	if m == nil {
		return fmt.Errorf("WriteDense(%q): %w", name, ErrNilValue)
	}
	rows, cols := m.Shape()
	colMajor := make([]float64, 0, rows*cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			v, err := m.At(i, j)
			if err != nil {
				return err
			}
			colMajor = append(colMajor, v)
		}
	}
	var body bytes.Buffer
	writeArrayHeader(&body, mxDOUBLE, 0, []int{rows, cols}, name)
	writeElement(&body, miDOUBLE, float64s(colMajor))

	return e.writeVar(name, body.Bytes())
}

// WriteString stores s as a 1×len char array.
func (e *Encoder) WriteString(name, s string) error {
	return e.writeVar(name, charBody(name, s))
}

// WriteStrings stores values as a 1×N cell array of char arrays.
func (e *Encoder) WriteStrings(name string, values []string) error {
	var body bytes.Buffer
	writeArrayHeader(&body, mxCELL, 0, []int{1, len(values)}, name)
	for _, v := range values {
		writeMatrix(&body, charBody("", v))
	}

	return e.writeVar(name, body.Bytes())
}

func (e *Encoder) writeVar(name string, body []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, dup := e.names[name]; dup {
		return fmt.Errorf("%w: %q written twice", ErrBadName, name)
	}
	if err := e.start(); err != nil {
		return err
	}
	var buf bytes.Buffer
	writeMatrix(&buf, body)
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("matfile: write %q: %w", name, err)
	}
	e.names[name] = struct{}{}

	return nil
}

func checkName(name string) error {
	if name == "" || len(name) > maxNameLen {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	for i, r := range name {
		letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !(letter || (i > 0 && (digit || r == '_'))) {
			return fmt.Errorf("%w: %q", ErrBadName, name)
		}
	}

	return nil
}

func charBody(name, s string) []byte {
	units := utf16.Encode([]rune(s))
	dims := []int{1, len(units)}
	if len(units) == 0 {
		dims = []int{0, 0}
	}
	data := make([]byte, 2*len(units))
	for i, u := range units {
		order.PutUint16(data[2*i:], u)
	}
	var body bytes.Buffer
	writeArrayHeader(&body, mxCHAR, 0, dims, name)
	writeElement(&body, miUINT16, data)

	return body.Bytes()
}

// writeArrayHeader emits array flags, dimensions and name sub-elements.
func writeArrayHeader(buf *bytes.Buffer, class, nzmax uint32, dims []int, name string) {
	flags := make([]byte, 8)
	order.PutUint32(flags, class)
	order.PutUint32(flags[4:], nzmax)
	writeElement(buf, miUINT32, flags)

	writeElement(buf, miINT32, int32s(dims))
	writeElement(buf, miINT8, []byte(name))
}

// writeMatrix wraps an array body in a miMATRIX tag. Bodies are already
// 8-byte aligned because every sub-element is padded.
func writeMatrix(buf *bytes.Buffer, body []byte) {
	tag := make([]byte, 8)
	order.PutUint32(tag, miMATRIX)
	order.PutUint32(tag[4:], uint32(len(body)))
	buf.Write(tag)
	buf.Write(body)
}

// writeElement emits a tagged, padded data element.
func writeElement(buf *bytes.Buffer, typ uint32, data []byte) {
	n := len(data)
	if n > 0 && n <= 4 {
		small := make([]byte, 8)
		order.PutUint32(small, uint32(n)<<16|typ)
		copy(small[4:], data)
		buf.Write(small)
		return
	}
	tag := make([]byte, 8)
	order.PutUint32(tag, typ)
	order.PutUint32(tag[4:], uint32(n))
	buf.Write(tag)
	buf.Write(data)
	if pad := (8 - n%8) % 8; pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

func int32s(xs []int) []byte {
	out := make([]byte, 4*len(xs))
	for i, x := range xs {
		order.PutUint32(out[4*i:], uint32(int32(x)))
	}

	return out
}

func float64s(xs []float64) []byte {
	out := make([]byte, 8*len(xs))
	for i, x := range xs {
		order.PutUint64(out[8*i:], math.Float64bits(x))
	}

	return out
}
