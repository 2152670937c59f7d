// SPDX-License-Identifier: MIT

// Package clean prepares the raw interaction database for extraction.
//
// Steps, in order:
//  1. count missing cells per column;
//  2. impute numeric columns with their median, other columns with a fill token;
//  3. drop exact duplicate rows;
//  4. coerce year columns to integers (unparsable → 0);
//  5. blank values further than Sigma standard deviations from the mean;
//  6. label-encode configured columns (sorted classes → index);
//  7. add a duration column = end year − start year.
package clean

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/foodweb/internal/ctxlog"
	"github.com/katalvlaran/foodweb/table"
	"gonum.org/v1/gonum/stat"
)

// ErrNilTable is returned when Run receives no table.
var ErrNilTable = errors.New("clean: table is nil")

// Options selects the columns each step touches. Columns that are absent
// from the table are skipped with a log line.
type Options struct {
	Fill          string   // token written into missing non-numeric cells
	StartYearCol  string   // sampling start year
	EndYearCol    string   // sampling end year
	OutlierCols   []string // columns screened for outliers
	Sigma         float64  // outlier threshold in standard deviations
	EncodeCols    []string // columns replaced by label codes
	DurationCol   string   // derived column name; empty disables step 7
	SkipDuplicate bool     // keep duplicate rows
}

// DefaultOptions mirrors the preprocessing used for the 2018 database release.
func DefaultOptions() Options {
	return Options{
		Fill:         "NA",
		StartYearCol: "sampling.start.year",
		EndYearCol:   "sampling.end.year",
		OutlierCols:  []string{"latitude"},
		Sigma:        3,
		EncodeCols:   []string{"interaction.classification", "con.taxonomy"},
		DurationCol:  "sampling_duration",
	}
}

// ColumnCount pairs a column with a count.
type ColumnCount struct {
	Column string
	Count  int
}

// Report describes what Run changed.
type Report struct {
	Missing           []ColumnCount // before imputation, header order
	Numeric           []string
	Medians           map[string]float64
	DuplicatesRemoved int
	Outliers          map[string]int
	Classes           map[string][]string // label-encoder classes per column
}

// Run cleans t in place and reports each step.
func Run(ctx context.Context, t *table.Table, opts Options) (*Report, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	log := ctxlog.FromContext(ctx)
	rep := &Report{
		Medians:  make(map[string]float64),
		Outliers: make(map[string]int),
		Classes:  make(map[string][]string),
	}

	rep.Missing = MissingCounts(t)
	for _, mc := range rep.Missing {
		if mc.Count > 0 {
			log.Info("missing values", "column", mc.Column, "count", mc.Count)
		}
	}

	for c, name := range t.Header {
		if isNumeric(t, c) {
			rep.Numeric = append(rep.Numeric, name)
			med := Median(columnFloats(t, c))
			rep.Medians[name] = med
			fillMissing(t, c, strconv.FormatFloat(med, 'f', -1, 64))
			continue
		}
		fillMissing(t, c, opts.Fill)
	}

	if !opts.SkipDuplicate {
		rep.DuplicatesRemoved = t.DropDuplicates()
		log.Info("duplicate rows removed", "count", rep.DuplicatesRemoved, "remaining", t.CountDuplicates())
	}

	for _, col := range []string{opts.StartYearCol, opts.EndYearCol} {
		if col == "" {
			continue
		}
		if err := coerceInt(t, col); err != nil {
			log.Warn("year column skipped", "column", col, "err", err)
		}
	}

	for _, col := range opts.OutlierCols {
		n, err := BlankOutliers(t, col, opts.Sigma)
		if err != nil {
			log.Warn("outlier column skipped", "column", col, "err", err)
			continue
		}
		rep.Outliers[col] = n
		log.Info("outliers blanked", "column", col, "count", n)
	}

	for _, col := range opts.EncodeCols {
		classes, err := LabelEncode(t, col)
		if err != nil {
			log.Warn("encode column skipped", "column", col, "err", err)
			continue
		}
		rep.Classes[col] = classes
	}

	if opts.DurationCol != "" {
		if err := addDuration(t, opts); err != nil {
			log.Warn("duration not derived", "err", err)
		}
	}

	return rep, nil
}

// MissingCounts returns missing-cell counts for every column in header order.
func MissingCounts(t *table.Table) []ColumnCount {
	out := make([]ColumnCount, len(t.Header))
	for c, name := range t.Header {
		out[c].Column = name
		for _, row := range t.Rows {
			if table.IsMissing(row[c]) {
				out[c].Count++
			}
		}
	}

	return out
}

// Median returns the middle value of xs, averaging the two middle values for
// an even count; NaN when xs is empty. xs is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}

	return (s[mid-1] + s[mid]) / 2
}

// BlankOutliers clears cells of col whose value lies more than sigma sample
// standard deviations from the column mean. Non-numeric cells are ignored.
func BlankOutliers(t *table.Table, col string, sigma float64) (int, error) {
	c, err := t.Col(col)
	if err != nil {
		return 0, err
	}
	xs := columnFloats(t, c)
	if len(xs) < 2 {
		return 0, nil
	}
	mean, std := stat.MeanStdDev(xs, nil)
	n := 0
	for _, row := range t.Rows {
		v, ok := parseFloat(row[c])
		if !ok {
			continue
		}
		if math.Abs(v-mean) > sigma*std {
			row[c] = ""
			n++
		}
	}

	return n, nil
}

// LabelEncode replaces each value of col with its index among the sorted
// distinct values, returning those classes.
func LabelEncode(t *table.Table, col string) ([]string, error) {
	c, err := t.Col(col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		seen[row[c]] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	code := make(map[string]string, len(classes))
	for i, v := range classes {
		code[v] = strconv.Itoa(i)
	}
	for _, row := range t.Rows {
		row[c] = code[row[c]]
	}

	return classes, nil
}

// isNumeric reports whether column c has at least one value and every
// non-missing value parses as a float.
func isNumeric(t *table.Table, c int) bool {
	seen := false
	for _, row := range t.Rows {
		if table.IsMissing(row[c]) {
			continue
		}
		if _, ok := parseFloat(row[c]); !ok {
			return false
		}
		seen = true
	}

	return seen
}

func columnFloats(t *table.Table, c int) []float64 {
	var out []float64
	for _, row := range t.Rows {
		if v, ok := parseFloat(row[c]); ok {
			out = append(out, v)
		}
	}

	return out
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if table.IsMissing(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}

	return v, true
}

func fillMissing(t *table.Table, c int, token string) {
	for _, row := range t.Rows {
		if table.IsMissing(row[c]) {
			row[c] = token
		}
	}
}

// coerceInt truncates numeric cells toward zero; anything else becomes 0.
func coerceInt(t *table.Table, col string) error {
	c, err := t.Col(col)
	if err != nil {
		return err
	}
	for _, row := range t.Rows {
		v, ok := parseFloat(row[c])
		if !ok || math.IsInf(v, 0) {
			row[c] = "0"
			continue
		}
		row[c] = strconv.FormatInt(int64(v), 10)
	}

	return nil
}

func addDuration(t *table.Table, opts Options) error {
	sc, err := t.Col(opts.StartYearCol)
	if err != nil {
		return err
	}
	ec, err := t.Col(opts.EndYearCol)
	if err != nil {
		return err
	}

	return t.AddColumn(opts.DurationCol, func(row []string) string {
		s, _ := strconv.Atoi(row[sc])
		e, _ := strconv.Atoi(row[ec])
		return strconv.Itoa(e - s)
	})
}

// String renders a one-line summary.
func (r *Report) String() string {
	missing := 0
	for _, mc := range r.Missing {
		missing += mc.Count
	}
	outliers := 0
	for _, n := range r.Outliers {
		outliers += n
	}

	return fmt.Sprintf("missing=%d numeric=%d duplicates=%d outliers=%d encoded=%d",
		missing, len(r.Numeric), r.DuplicatesRemoved, outliers, len(r.Classes))
}
