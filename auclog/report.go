// SPDX-License-Identifier: MIT

package auclog

import (
	"io"
	"strconv"

	"github.com/katalvlaran/foodweb/table"
)

// Table lays the per-source means out wide: one row per source, one column
// per key in ks (Keys() when ks is empty). Absent cells read NA.
func (s *Summary) Table(ks []int) *table.Table {
	if len(ks) == 0 {
		ks = s.Keys()
	}
	header := make([]string, 0, len(ks)+1)
	header = append(header, "source")
	for _, k := range ks {
		header = append(header, "K"+strconv.Itoa(k))
	}
	t := table.New(header...)
	for _, src := range s.sources {
		row := make([]string, 0, len(header))
		row = append(row, src)
		for _, k := range ks {
			row = append(row, s.BySource(src, k).String())
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

// PooledTable lists group_key, mean and count for each key in ks
// (Keys() when ks is empty).
func (s *Summary) PooledTable(ks []int) *table.Table {
	if len(ks) == 0 {
		ks = s.Keys()
	}
	t := table.New("group_key", "mean", "n")
	for _, k := range ks {
		m := s.Pooled(k)
		t.Rows = append(t.Rows, []string{strconv.Itoa(k), m.String(), strconv.Itoa(m.Count)})
	}

	return t
}

// WritePooledCSV writes PooledTable(ks) as CSV.
func (s *Summary) WritePooledCSV(w io.Writer, ks []int) error {
	return s.PooledTable(ks).Write(w)
}

// WriteSourceCSV writes Table(ks) as CSV.
func (s *Summary) WriteSourceCSV(w io.Writer, ks []int) error {
	return s.Table(ks).Write(w)
}
