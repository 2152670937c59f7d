// SPDX-License-Identifier: MIT

// Package matrix provides the numeric containers behind food-web adjacency:
// a row-major Dense matrix, a compressed-sparse-column (CSC) form for export,
// and AdjacencyMatrix, which binds a square Dense to a species label index.
//
// What & Why:
//
//	Species pairs are collected as labels and materialized into integer-indexed
//	storage only at the end. AdjacencyMatrix keeps the label → row/col index and
//	its reverse so that callers can query by label (Has, Neighbors) and never
//	depend on raw positions, which vary with discovery order.
//
// Zero-size policy:
//
//	Unlike general linear-algebra containers, a 0×0 matrix is valid here: an
//	empty interaction set yields a species index of size 0 and a 0×0 adjacency.
//	Only negative shapes are rejected (ErrBadShape).
//
// Determinism:
//
//	All loops run in fixed row-major (Dense) or column-major (CSC) order; no
//	result depends on Go map iteration.
//
// Complexity quicksheet:
//
//	NewDense: O(r*c); At/Set: O(1); Clone: O(r*c); DenseToCSC: O(r*c);
//	NewAdjacencyMatrix: O(V² + E).
package matrix
