// SPDX-License-Identifier: MIT

// Package convert moves food-web data between the formats the pipeline
// produces and the formats downstream tools read: pipe tables to CSV,
// adjacency to labelled CSV or MAT-files, and column renames.
package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/katalvlaran/foodweb/adjacency"
	"github.com/katalvlaran/foodweb/extract"
	"github.com/katalvlaran/foodweb/internal/ctxlog"
	"github.com/katalvlaran/foodweb/internal/lineio"
	"github.com/katalvlaran/foodweb/matfile"
	"github.com/katalvlaran/foodweb/table"
)

var (
	// ErrNoPipeHeader is returned when a pipe table has no header line.
	ErrNoPipeHeader = errors.New("convert: no pipe-delimited header")

	// ErrUnknownMode is returned for an unsupported MAT layout.
	ErrUnknownMode = errors.New("convert: unknown mat mode")
)

// ruleLine matches separator rows such as |==========|=====|.
var ruleLine = regexp.MustCompile(`^\|={10,}\|`)

// PipeTableToCSV converts a pipe-delimited text table to CSV.
// Rule lines are skipped; the first line containing '|' is the header and
// every later line containing '|' is a row. Outer pipes and cell padding are
// trimmed. It returns the number of data rows written.
func PipeTableToCSV(r io.Reader, w io.Writer) (int, error) {
	var t *table.Table
	err := lineio.Each(r, 0, func(line string, _ bool) {
		line = strings.TrimSpace(line)
		if ruleLine.MatchString(line) || !strings.Contains(line, "|") {
			return
		}
		cells := strings.Split(strings.Trim(line, "|"), "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		if t == nil {
			t = table.New(cells...)
			return
		}
		t.Rows = append(t.Rows, cells)
	})
	if err != nil {
		return 0, fmt.Errorf("convert: read: %w", err)
	}
	if t == nil {
		return 0, ErrNoPipeHeader
	}

	return t.Len(), t.Write(w)
}

// AdjacencyCSV writes the labelled dense matrix: an unnamed corner cell, then
// species labels across the header and down the first column.
func AdjacencyCSV(res *adjacency.Result, w io.Writer) error {
	am := res.Matrix()
	labels := am.Labels()
	t := table.New(append([]string{""}, labels...)...)
	for i, label := range labels {
		row, err := am.Mat.RawRow(i)
		if err != nil {
			return err
		}
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, label)
		for _, v := range row {
			cells = append(cells, strconv.FormatFloat(v, 'f', 1, 64))
		}
		t.Rows = append(t.Rows, cells)
	}

	return t.Write(w)
}

// MATMode selects what a web's MAT-file contains.
type MATMode string

const (
	// Sparse stores only net, as a sparse double matrix.
	Sparse MATMode = "sparse"
	// Classified stores net dense plus species and classification cell rows.
	Classified MATMode = "classified"
)

// ParseMATMode validates s.
func ParseMATMode(s string) (MATMode, error) {
	switch m := MATMode(s); m {
	case Sparse, Classified:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// WebToMAT writes res as a MAT-file with variable "net".
func WebToMAT(res *adjacency.Result, w io.Writer, mode MATMode, opts ...matfile.Option) error {
	enc := matfile.NewEncoder(w, opts...)
	am := res.Matrix()
	switch mode {
	case Sparse:
		csc, err := am.ToCSC()
		if err != nil {
			return err
		}
		if err = enc.WriteSparse("net", csc); err != nil {
			return err
		}
	case Classified:
		if err := enc.WriteDense("net", am.Mat); err != nil {
			return err
		}
		if err := enc.WriteStrings("species", am.Labels()); err != nil {
			return err
		}
		roles := res.Roles()
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		if err := enc.WriteStrings("classification", names); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	return enc.Close()
}

// MATJob describes a catalog-wide MAT conversion.
type MATJob struct {
	InDir       string
	OutDir      string
	Mode        MATMode
	Underscores bool // input/output names use FileName with underscores
	Columns     extract.Options
	Encoder     []matfile.Option
}

// CatalogToMAT converts <InDir>/<web>.csv to <OutDir>/<web>.mat for each
// catalog entry. Missing inputs are logged and skipped; it returns the
// number of files written.
func CatalogToMAT(ctx context.Context, cat extract.Catalog, job MATJob) (int, error) {
	log := ctxlog.FromContext(ctx)
	if _, err := ParseMATMode(string(job.Mode)); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(job.OutDir, 0o755); err != nil {
		return 0, err
	}

	written := 0
	for _, e := range cat {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		stem := extract.FileName(e.Foodweb, job.Underscores)
		in := filepath.Join(job.InDir, stem+".csv")
		t, err := table.ReadFile(in)
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("input file not found", "path", in)
			continue
		}
		if err != nil {
			return written, err
		}
		recs, err := adjacency.FromTable(t, job.Columns.ConsumerCol, job.Columns.ResourceCol)
		if err != nil {
			return written, fmt.Errorf("%s: %w", in, err)
		}
		res, err := adjacency.Build(recs, adjacency.WithDiscovery(job.Columns.Discovery))
		if err != nil {
			return written, err
		}
		out := filepath.Join(job.OutDir, stem+".mat")
		if err = writeMAT(out, res, job); err != nil {
			return written, err
		}
		log.Info("mat file saved", "path", out, "species", res.Index().Len())
		written++
	}

	return written, nil
}

func writeMAT(path string, res *adjacency.Result, job MATJob) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(f)
	if err = WebToMAT(res, bw, job.Mode, job.Encoder...); err != nil {
		return err
	}

	return bw.Flush()
}

// CamelCase is the column mapping used for graph-database imports.
var CamelCase = map[string]string{
	"interaction.type": "interactionType",
	"con.taxonomy":     "conTaxonomy",
	"con.mass.mean.g.": "conMassMean",
	"res.taxonomy":     "resTaxonomy",
	"res.mass.mean.g.": "resMassMean",
	"foodweb.name":     "foodwebName",
}

// RenameColumns renames the columns of t found in mapping and, when both
// mass columns are present afterwards, appends bodyMassRatio = con / res
// (NA when either side is missing or the resource mass is 0).
func RenameColumns(t *table.Table, mapping map[string]string) error {
	if err := t.Rename(mapping); err != nil {
		return err
	}
	ci, cerr := t.Col("conMassMean")
	ri, rerr := t.Col("resMassMean")
	if cerr != nil || rerr != nil || t.HasCol("bodyMassRatio") {
		return nil
	}

	return t.AddColumn("bodyMassRatio", func(row []string) string {
		c, err1 := strconv.ParseFloat(strings.TrimSpace(row[ci]), 64)
		r, err2 := strconv.ParseFloat(strings.TrimSpace(row[ri]), 64)
		if err1 != nil || err2 != nil || r == 0 {
			return "NA"
		}
		return strconv.FormatFloat(c/r, 'f', -1, 64)
	})
}
