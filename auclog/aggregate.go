// SPDX-License-Identifier: MIT

package auclog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/katalvlaran/foodweb/internal/ctxlog"
	"gonum.org/v1/gonum/stat"
)

// Source names one log to aggregate. Label keys the per-source breakdown;
// several sources may share a label and are then pooled under it.
type Source struct {
	Label string
	Path  string
}

// SourcesIn returns one Source per name, reading <dir>/<name><ext>.
func SourcesIn(dir, ext string, names ...string) []Source {
	out := make([]Source, len(names))
	for i, n := range names {
		out[i] = Source{Label: n, Path: filepath.Join(dir, n+ext)}
	}

	return out
}

// Mean is an aggregate score. Count == 0 means absent, which is distinct
// from a mean of 0.
type Mean struct {
	Value float64
	Count int
}

// Valid reports whether the mean was computed from at least one score.
func (m Mean) Valid() bool { return m.Count > 0 }

// String renders the value, or NA when absent.
func (m Mean) String() string {
	if !m.Valid() {
		return "NA"
	}

	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func meanOf(xs []float64) Mean {
	if len(xs) == 0 {
		return Mean{}
	}

	return Mean{Value: stat.Mean(xs, nil), Count: len(xs)}
}

// Aggregator reduces sources with a fixed Parser.
type Aggregator struct {
	parser *Parser
	open   func(path string) (io.ReadCloser, error)
}

// NewAggregator binds p; nil selects DefaultParser.
func NewAggregator(p *Parser) *Aggregator {
	if p == nil {
		p = DefaultParser()
	}

	return &Aggregator{
		parser: p,
		open:   func(path string) (io.ReadCloser, error) { return os.Open(path) },
	}
}

// Aggregate is shorthand for NewAggregator(p).Aggregate(ctx, sources...).
func Aggregate(ctx context.Context, p *Parser, sources ...Source) (*Summary, error) {
	return NewAggregator(p).Aggregate(ctx, sources...)
}

// Aggregate reads sources in order and collects their scores by group key.
//
// Behavior highlights:
//   - A source that cannot be opened or read is logged at WARN, listed in
//     Summary.Missing and contributes no records; the run continues.
//   - Non-matching lines are counted per source and logged at DEBUG.
//   - The only error returned is ctx.Err(), checked between sources; the
//     partial Summary is returned alongside it.
func (a *Aggregator) Aggregate(ctx context.Context, sources ...Source) (*Summary, error) {
	log := ctxlog.FromContext(ctx)
	s := newSummary()

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		s.addSource(src.Label)

		recs, skipped, err := a.read(src.Path)
		if err != nil {
			log.Warn("log source unavailable", "source", src.Label, "path", src.Path, "err", err)
			s.missing = append(s.missing, src.Label)
			continue
		}
		if skipped > 0 {
			log.Debug("skipped non-matching lines", "source", src.Label, "count", skipped)
		}
		s.skipped[src.Label] += skipped
		for _, r := range recs {
			s.add(src.Label, r)
		}
		log.Debug("log source read", "source", src.Label, "records", len(recs))
	}

	return s, nil
}

func (a *Aggregator) read(path string) ([]Record, int, error) {
	f, err := a.open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return a.parser.ParseReader(f)
}

// Summary holds the scores collected by Aggregate.
type Summary struct {
	sources  []string
	seen     map[string]struct{}
	missing  []string
	skipped  map[string]int
	pooled   map[int][]float64
	bySource map[string]map[int][]float64
}

func newSummary() *Summary {
	return &Summary{
		seen:     make(map[string]struct{}),
		skipped:  make(map[string]int),
		pooled:   make(map[int][]float64),
		bySource: make(map[string]map[int][]float64),
	}
}

func (s *Summary) addSource(label string) {
	if _, ok := s.seen[label]; ok {
		return
	}
	s.seen[label] = struct{}{}
	s.sources = append(s.sources, label)
	s.bySource[label] = make(map[int][]float64)
}

func (s *Summary) add(label string, r Record) {
	s.pooled[r.Key] = append(s.pooled[r.Key], r.Score)
	s.bySource[label][r.Key] = append(s.bySource[label][r.Key], r.Score)
}

// Pooled returns the mean score of group key k over every source.
func (s *Summary) Pooled(k int) Mean { return meanOf(s.pooled[k]) }

// BySource returns the mean score of k within one source label.
func (s *Summary) BySource(label string, k int) Mean {
	return meanOf(s.bySource[label][k])
}

// Keys returns every group key with at least one record, ascending.
func (s *Summary) Keys() []int {
	out := make([]int, 0, len(s.pooled))
	for k := range s.pooled {
		out = append(out, k)
	}
	sort.Ints(out)

	return out
}

// Sources returns the distinct labels in the order first supplied.
func (s *Summary) Sources() []string {
	out := make([]string, len(s.sources))
	copy(out, s.sources)

	return out
}

// Missing returns the labels of sources that could not be read.
func (s *Summary) Missing() []string {
	out := make([]string, len(s.missing))
	copy(out, s.missing)

	return out
}

// Skipped returns the number of non-matching lines seen for label.
func (s *Summary) Skipped(label string) int { return s.skipped[label] }
