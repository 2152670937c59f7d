// SPDX-License-Identifier: MIT

// Package table is a minimal column-named view over CSV data: a header row plus
// string cells. It gives the food-web pipelines the handful of data-frame
// operations they need (select, filter, unique, group, de-duplicate, rename)
// with deterministic, first-seen ordering everywhere.
//
// Missing values follow the pandas default NA token set (see IsMissing), so a
// CSV written by the research notebooks is interpreted the same way here.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("table: missing header row")

	// ErrUnknownColumn is returned when a referenced column is not in the header.
	ErrUnknownColumn = errors.New("table: unknown column")

	// ErrRaggedRow is returned when a data row has more cells than the header.
	ErrRaggedRow = errors.New("table: row wider than header")

	// ErrDuplicateColumn is returned when a header names a column twice.
	ErrDuplicateColumn = errors.New("table: duplicate column")
)

// utf8BOM is stripped from the first header cell (Excel exports carry it).
const utf8BOM = "\ufeff"

// naTokens mirrors the strings pandas.read_csv treats as NaN by default.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a cell counts as a missing value.
func IsMissing(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// Table is a header plus rows of string cells. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// New returns an empty table with the given header.
func New(header ...string) *Table {
	h := make([]string, len(header))
	copy(h, header)

	return &Table{Header: h}
}

// Read parses comma-separated data whose first record is the header.
// Short rows are padded with empty (missing) cells.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("table: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	t := New(header...)
	if err = t.checkHeader(); err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table: read line %d: %w", line, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("table: line %d has %d cells: %w", line, len(rec), ErrRaggedRow)
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// Write emits the header and rows as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}

	return cw.Error()
}

// WriteFile creates (or truncates) path and writes the table to it.
func (t *Table) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return t.Write(f)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Col returns the position of name in the header.
func (t *Table) Col(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// HasCol reports whether name is a header column.
func (t *Table) HasCol(name string) bool {
	_, err := t.Col(name)
	return err == nil
}

// Values returns a copy of one column.
func (t *Table) Values(name string) ([]string, error) {
	c, err := t.Col(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[c]
	}

	return out, nil
}

// Append adds a row; it must have exactly len(Header) cells.
func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Header) {
		return fmt.Errorf("table: append %d cells to %d columns: %w", len(row), len(t.Header), ErrRaggedRow)
	}
	cp := make([]string, len(row))
	copy(cp, row)
	t.Rows = append(t.Rows, cp)

	return nil
}

// Select returns a new table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		c, err := t.Col(n)
		if err != nil {
			return nil, err
		}
		idx[i] = c
	}
	out := New(names...)
	out.Rows = make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		sel := make([]string, len(idx))
		for i, c := range idx {
			sel[i] = row[c]
		}
		out.Rows[r] = sel
	}

	return out, nil
}

// Filter returns a new table with the rows for which keep is true.
// Row slices are shared with t; clone before mutating cells in place.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := New(t.Header...)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

// Unique returns the distinct non-missing values of a column in first-seen order.
func (t *Table) Unique(name string) ([]string, error) {
	c, err := t.Col(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		v := row[c]
		if IsMissing(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out, nil
}

// Group is the subset of rows sharing one key value.
type Group struct {
	Key   string
	Table *Table
}

// GroupBy partitions rows by a column, groups in first-seen key order.
// Rows whose key is missing are not assigned to any group.
func (t *Table) GroupBy(name string) ([]Group, error) {
	c, err := t.Col(name)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int)
	var groups []Group
	for _, row := range t.Rows {
		k := row[c]
		if IsMissing(k) {
			continue
		}
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group{Key: k, Table: New(t.Header...)})
		}
		groups[i].Table.Rows = append(groups[i].Table.Rows, row)
	}

	return groups, nil
}

// DropDuplicates removes rows identical to an earlier row (first occurrence
// kept) and returns how many were removed.
func (t *Table) DropDuplicates() int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	removed := 0
	for _, row := range t.Rows {
		k := rowKey(row)
		if _, ok := seen[k]; ok {
			removed++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	t.Rows = kept

	return removed
}

// CountDuplicates reports how many rows DropDuplicates would remove.
func (t *Table) CountDuplicates() int {
	seen := make(map[string]struct{}, len(t.Rows))
	n := 0
	for _, row := range t.Rows {
		k := rowKey(row)
		if _, ok := seen[k]; ok {
			n++
			continue
		}
		seen[k] = struct{}{}
	}

	return n
}

// Rename replaces header names found in mapping; other columns are untouched.
// It fails without modifying the table if the result would repeat a name.
func (t *Table) Rename(mapping map[string]string) error {
	next := make([]string, len(t.Header))
	for i, h := range t.Header {
		if n, ok := mapping[h]; ok {
			next[i] = n
		} else {
			next[i] = h
		}
	}
	old := t.Header
	t.Header = next
	if err := t.checkHeader(); err != nil {
		t.Header = old
		return err
	}

	return nil
}

// AddColumn appends a column computed per row.
func (t *Table) AddColumn(name string, f func(row []string) string) error {
	if t.HasCol(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	t.Header = append(t.Header, name)
	for i, row := range t.Rows {
		next := make([]string, len(row)+1)
		copy(next, row)
		next[len(row)] = f(row)
		t.Rows[i] = next
	}

	return nil
}

func (t *Table) checkHeader() error {
	seen := make(map[string]struct{}, len(t.Header))
	for _, h := range t.Header {
		if _, ok := seen[h]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, h)
		}
		seen[h] = struct{}{}
	}

	return nil
}

// rowKey joins cells with a separator that cannot appear unescaped in CSV text.
func rowKey(row []string) string {
	return strings.Join(row, "\x00")
}
