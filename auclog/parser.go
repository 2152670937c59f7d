// SPDX-License-Identifier: MIT

// Package auclog reads pipe-delimited experiment logs and reduces the scores
// they contain to per-group means.
//
// A log line looks like
//
//	| 3 | 0.75 | 00:01:02 | 10 | 50% |
//
// where the columns are iteration, score, elapsed time, group key (the
// encoded subgraph size K) and progress. Lines that do not have this shape are
// expected and ignored.
package auclog

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/katalvlaran/foodweb/internal/lineio"
)

// DefaultPattern captures (iteration, score, group key) from a log row.
const DefaultPattern = `^\|\s*(\d+)\s*\|\s*([\d.]+)\s*\|\s*\d{2}:\d{2}:\d{2}\s*\|\s*(\d+)\s*\|\s*\d+%`

// ErrPatternGroups is returned when a pattern does not have exactly three groups.
var ErrPatternGroups = errors.New("auclog: pattern must have exactly 3 capture groups")

// Record is one matched log row.
type Record struct {
	Iteration int
	Score     float64
	Key       int
}

// Parser turns lines into Records using a compiled pattern whose groups are,
// in order, iteration, score and group key.
type Parser struct {
	re *regexp.Regexp
}

// NewParser compiles pattern.
//
// Errors:
//   - the regexp compile error, wrapped.
//   - ErrPatternGroups when the group count is not 3.
func NewParser(pattern string) (*Parser, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("auclog: compile pattern: %w", err)
	}
	if n := re.NumSubexp(); n != 3 {
		return nil, fmt.Errorf("%w (got %d)", ErrPatternGroups, n)
	}

	return &Parser{re: re}, nil
}

// DefaultParser returns a Parser for DefaultPattern.
func DefaultParser() *Parser {
	return &Parser{re: regexp.MustCompile(DefaultPattern)}
}

// Pattern returns the source text of the compiled pattern.
func (p *Parser) Pattern() string { return p.re.String() }

// ParseLine reports the record on line, or false when the line does not match
// or a captured group does not parse as its type.
func (p *Parser) ParseLine(line string) (Record, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	iter, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}, false
	}
	score, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Record{}, false
	}
	key, err := strconv.Atoi(m[3])
	if err != nil {
		return Record{}, false
	}

	return Record{Iteration: iter, Score: score, Key: key}, true
}

// MaxLineBytes bounds the lines ParseReader will match; longer lines are
// counted as skipped without being buffered.
const MaxLineBytes = 1 << 20

// ParseReader scans r line by line. Blank lines are neither records nor
// skips; every other non-matching line, overlong ones included, increments
// skipped. err is non-nil only when reading r fails.
func (p *Parser) ParseReader(r io.Reader) (records []Record, skipped int, err error) {
	err = lineio.Each(r, MaxLineBytes, func(line string, overlong bool) {
		if overlong {
			skipped++
			return
		}
		if strings.TrimSpace(line) == "" {
			return
		}
		rec, ok := p.ParseLine(line)
		if !ok {
			skipped++
			return
		}
		records = append(records, rec)
	})
	if err != nil {
		return nil, skipped, fmt.Errorf("auclog: read: %w", err)
	}

	return records, skipped, nil
}
