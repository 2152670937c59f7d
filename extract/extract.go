// SPDX-License-Identifier: MIT

// Package extract splits the interaction database into one table per food web
// and builds the metrics catalog that every later step iterates over.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/foodweb/adjacency"
	"github.com/katalvlaran/foodweb/internal/ctxlog"
	"github.com/katalvlaran/foodweb/table"
	"github.com/katalvlaran/foodweb/trophic"
)

// CatalogFile is the catalog's file name inside the output directory.
const CatalogFile = "foodweb_metrics.csv"

// Options names the input columns and output layout.
type Options struct {
	WebCol      string // food-web name column
	ConsumerCol string
	ResourceCol string
	Discovery   adjacency.Discovery
	OutDir      string // per-web CSVs and the catalog; empty = compute only
	Underscores bool   // replace spaces in file names
}

// DefaultOptions uses the database's column names.
func DefaultOptions() Options {
	return Options{
		WebCol:      "foodweb.name",
		ConsumerCol: "con.taxonomy",
		ResourceCol: "res.taxonomy",
	}
}

// FileName turns a web name into a file name stem: path separators become
// '-', and spaces become '_' when underscores is set.
func FileName(web string, underscores bool) string {
	r := strings.NewReplacer("/", "-", `\`, "-")
	name := r.Replace(web)
	if underscores {
		name = strings.ReplaceAll(name, " ", "_")
	}

	return name
}

// Measure builds the adjacency of one web and summarizes it.
func Measure(ctx context.Context, web string, t *table.Table, opts Options) (Entry, *adjacency.Result, error) {
	recs, err := adjacency.FromTable(t, opts.ConsumerCol, opts.ResourceCol)
	if err != nil {
		return Entry{}, nil, err
	}
	res, err := adjacency.Build(recs, adjacency.WithDiscovery(opts.Discovery))
	if err != nil {
		return Entry{}, nil, err
	}
	ts, err := trophic.Summarize(ctx, res.Graph())
	if err != nil {
		return Entry{}, nil, err
	}
	m := res.Metrics()

	return Entry{
		Foodweb:         web,
		Nodes:           m.Nodes,
		Edges:           m.Edges,
		Connectance:     m.Connectance,
		Basal:           ts.Basal,
		Top:             ts.Top,
		MaxTrophicLevel: ts.MaxLevel,
	}, res, nil
}

// Run groups t by opts.WebCol (first-seen order), writes each group to
// <OutDir>/<FileName>.csv plus the catalog, and returns the catalog.
// Rows without a web name belong to no web.
func Run(ctx context.Context, t *table.Table, opts Options) (Catalog, error) {
	log := ctxlog.FromContext(ctx)
	groups, err := t.GroupBy(opts.WebCol)
	if err != nil {
		return nil, err
	}
	if opts.OutDir != "" {
		if err = os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, err
		}
	}

	cat := make(Catalog, 0, len(groups))
	for _, g := range groups {
		if err = ctx.Err(); err != nil {
			return cat, err
		}
		e, res, err := Measure(ctx, g.Key, g.Table, opts)
		if err != nil {
			return cat, fmt.Errorf("extract %q: %w", g.Key, err)
		}
		if res.Dropped() > 0 {
			log.Debug("rows without both taxa dropped", "foodweb", g.Key, "count", res.Dropped())
		}
		log.Info("foodweb", "name", e.Foodweb, "nodes", e.Nodes, "edges", e.Edges, "connectance", e.Connectance)
		cat = append(cat, e)

		if opts.OutDir == "" {
			continue
		}
		path := filepath.Join(opts.OutDir, FileName(g.Key, opts.Underscores)+".csv")
		if err = g.Table.WriteFile(path); err != nil {
			return cat, err
		}
	}

	if opts.OutDir != "" {
		path := filepath.Join(opts.OutDir, CatalogFile)
		if err = cat.WriteFile(path); err != nil {
			return cat, err
		}
		log.Info("catalog written", "path", path, "foodwebs", len(cat))
	}

	return cat, nil
}
