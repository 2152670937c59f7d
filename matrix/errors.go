// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All functions return these sentinels (possibly wrapped with call-site context
// via fmt.Errorf("...: %w", ErrX)); tests match them with errors.Is.
// No function panics on user-triggered error conditions.

package matrix

import "errors"

var (
	// ErrBadShape is returned when requested shape is invalid (negative rows or cols).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrGraphNil indicates that a nil *core.Graph was passed into an adapter.
	ErrGraphNil = errors.New("matrix: graph is nil")

	// ErrUnknownVertex indicates that a referenced vertex label is not present
	// in the current vertex index.
	ErrUnknownVertex = errors.New("matrix: unknown vertex id")

	// ErrDuplicateVertex indicates that a vertex order lists the same label twice.
	ErrDuplicateVertex = errors.New("matrix: duplicate vertex id")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrEmpty indicates an operation that needs at least one row and column.
	ErrEmpty = errors.New("matrix: empty matrix")
)
