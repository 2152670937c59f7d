// SPDX-License-Identifier: MIT

package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/foodweb/table"
)

// Catalog column names.
const (
	ColFoodweb     = "Foodweb"
	ColNodes       = "Nodes"
	ColEdges       = "Edges"
	ColConnectance = "Connectance"
	ColBasal       = "Basal"
	ColTop         = "Top"
	ColMaxLevel    = "MaxTrophicLevel"
)

// ErrCatalogColumn is returned when a catalog lacks a required column or a
// cell does not parse.
var ErrCatalogColumn = errors.New("extract: bad catalog column")

// Entry is one catalog row.
type Entry struct {
	Foodweb         string
	Nodes           int
	Edges           int
	Connectance     float64
	Basal           int
	Top             int
	MaxTrophicLevel int
}

// Catalog lists per-web metrics in extraction order.
type Catalog []Entry

// Names returns the web names in catalog order.
func (c Catalog) Names() []string {
	out := make([]string, len(c))
	for i, e := range c {
		out[i] = e.Foodweb
	}

	return out
}

// SortByEdges returns a copy ordered by ascending edge count; ties keep
// catalog order.
func (c Catalog) SortByEdges() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Edges < out[j].Edges })

	return out
}

// Table renders the catalog with every column.
func (c Catalog) Table() *table.Table {
	t := table.New(ColFoodweb, ColNodes, ColEdges, ColConnectance, ColBasal, ColTop, ColMaxLevel)
	for _, e := range c {
		t.Rows = append(t.Rows, []string{
			e.Foodweb,
			strconv.Itoa(e.Nodes),
			strconv.Itoa(e.Edges),
			strconv.FormatFloat(e.Connectance, 'f', -1, 64),
			strconv.Itoa(e.Basal),
			strconv.Itoa(e.Top),
			strconv.Itoa(e.MaxTrophicLevel),
		})
	}

	return t
}

// Write emits the catalog as CSV.
func (c Catalog) Write(w io.Writer) error { return c.Table().Write(w) }

// WriteFile writes the catalog CSV to path.
func (c Catalog) WriteFile(path string) error { return c.Table().WriteFile(path) }

// ReadCatalog parses a catalog CSV. Foodweb, Nodes, Edges and Connectance
// are required; the trophic columns are optional and default to 0.
func ReadCatalog(r io.Reader) (Catalog, error) {
	t, err := table.Read(r)
	if err != nil {
		return nil, err
	}

	return catalogFromTable(t)
}

// ReadCatalogFile opens path and calls ReadCatalog.
func ReadCatalogFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func catalogFromTable(t *table.Table) (Catalog, error) {
	col := func(name string, required bool) (int, error) {
		i, err := t.Col(name)
		if err != nil && required {
			return -1, fmt.Errorf("%w: %q missing", ErrCatalogColumn, name)
		}
		if err != nil {
			return -1, nil
		}
		return i, nil
	}
	idx := make(map[string]int, 7)
	for _, want := range []struct {
		name     string
		required bool
	}{
		{ColFoodweb, true}, {ColNodes, true}, {ColEdges, true}, {ColConnectance, true},
		{ColBasal, false}, {ColTop, false}, {ColMaxLevel, false},
	} {
		i, err := col(want.name, want.required)
		if err != nil {
			return nil, err
		}
		idx[want.name] = i
	}

	out := make(Catalog, 0, t.Len())
	for line, row := range t.Rows {
		e := Entry{Foodweb: row[idx[ColFoodweb]]}
		var err error
		if e.Nodes, err = intCell(row, idx[ColNodes]); err != nil {
			return nil, rowErr(line, ColNodes, err)
		}
		if e.Edges, err = intCell(row, idx[ColEdges]); err != nil {
			return nil, rowErr(line, ColEdges, err)
		}
		if e.Connectance, err = strconv.ParseFloat(strings.TrimSpace(row[idx[ColConnectance]]), 64); err != nil {
			return nil, rowErr(line, ColConnectance, err)
		}
		if e.Basal, err = intCell(row, idx[ColBasal]); err != nil {
			return nil, rowErr(line, ColBasal, err)
		}
		if e.Top, err = intCell(row, idx[ColTop]); err != nil {
			return nil, rowErr(line, ColTop, err)
		}
		if e.MaxTrophicLevel, err = intCell(row, idx[ColMaxLevel]); err != nil {
			return nil, rowErr(line, ColMaxLevel, err)
		}
		out = append(out, e)
	}

	return out, nil
}

// intCell parses row[i]; an absent column (i < 0) or missing cell is 0.
func intCell(row []string, i int) (int, error) {
	if i < 0 || table.IsMissing(row[i]) {
		return 0, nil
	}

	return strconv.Atoi(strings.TrimSpace(row[i]))
}

func rowErr(line int, col string, err error) error {
	return fmt.Errorf("%w: row %d %s: %v", ErrCatalogColumn, line+1, col, err)
}
