// SPDX-License-Identifier: MIT

// Package foodweb is a toolkit for ecological food-web datasets: it cleans an
// interaction database, builds one species adjacency per food web, exports
// networks as CSV and MATLAB MAT-files, and averages scores from experiment
// logs.
//
// Layout:
//
//	table/     CSV frame with pandas-style missing values
//	core/      directed, label-keyed food-web Graph
//	matrix/    Dense, CSC and the label-bound AdjacencyMatrix
//	adjacency/ species index + binary adjacency from (consumer, resource) pairs
//	trophic/   basal/intermediate/top positions and trophic levels
//	clean/     imputation, de-duplication, outliers, label encoding
//	extract/   per-web split and the metrics catalog
//	matfile/   Level 5 MAT-file encoder
//	convert/   pipe tables, adjacency CSV, MAT conversion, column renames
//	auclog/    log line parser and per-key mean aggregation
//	store/     SQLite persistence of catalogs and aggregation runs
//
// The foodweb command in cmd/foodweb drives the whole pipeline.
package foodweb
