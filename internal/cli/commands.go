// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/foodweb/adjacency"
	"github.com/katalvlaran/foodweb/auclog"
	"github.com/katalvlaran/foodweb/clean"
	"github.com/katalvlaran/foodweb/convert"
	"github.com/katalvlaran/foodweb/extract"
	"github.com/katalvlaran/foodweb/internal/ctxlog"
	"github.com/katalvlaran/foodweb/store"
	"github.com/katalvlaran/foodweb/table"
)

func (a *app) cleanCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the raw interaction database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			in = pick(in, a.cfg.Paths.Database)
			out = pick(out, a.cfg.Paths.Cleaned)
			if in == "" || out == "" {
				return fmt.Errorf("clean: --in and --out (or paths.database and paths.cleaned) are required")
			}

			t, err := table.ReadFile(in)
			if err != nil {
				return err
			}
			opts := clean.DefaultOptions()
			opts.Fill = a.cfg.Clean.Fill
			opts.Sigma = a.cfg.Clean.Sigma
			opts.OutlierCols = a.cfg.Clean.OutlierCols
			opts.EncodeCols = a.cfg.Clean.EncodeCols

			rep, err := clean.Run(ctx, t, opts)
			if err != nil {
				return err
			}
			if err = t.WriteFile(out); err != nil {
				return err
			}
			ctxlog.FromContext(ctx).Info("cleaned table saved", "path", out, "rows", t.Len())
			fmt.Fprintln(a.stdout, rep)

			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "raw interaction CSV (default paths.database)")
	cmd.Flags().StringVar(&out, "out", "", "cleaned CSV (default paths.cleaned)")

	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var in, outDir string
	var underscores bool
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write one interaction CSV per food web and the metrics catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			in = pick(in, pick(a.cfg.Paths.Cleaned, a.cfg.Paths.Database))
			if in == "" {
				return fmt.Errorf("extract: --in (or paths.cleaned) is required")
			}
			t, err := table.ReadFile(in)
			if err != nil {
				return err
			}

			opts := a.extractOptions()
			opts.OutDir = pick(outDir, a.cfg.Paths.WebDir)
			opts.Underscores = underscores
			cat, err := extract.Run(ctx, t, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%d food webs written to %s\n", len(cat), opts.OutDir)

			return a.withStore(ctx, func(s *store.Store) error {
				return s.SaveCatalog(ctx, cat)
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "interaction CSV (default paths.cleaned)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (default paths.web_dir)")
	cmd.Flags().BoolVar(&underscores, "underscores", false, "replace spaces in file names with '_'")

	return cmd
}

func (a *app) adjacencyCmd() *cobra.Command {
	var out, discovery string
	cmd := &cobra.Command{
		Use:   "adjacency <web.csv>",
		Short: "Print the labelled adjacency matrix of one food web",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.extractOptions()
			if discovery != "" {
				d, err := adjacency.ParseDiscovery(discovery)
				if err != nil {
					return err
				}
				opts.Discovery = d
			}
			res, err := buildWeb(args[0], opts)
			if err != nil {
				return err
			}
			m := res.Metrics()
			ctxlog.FromContext(cmd.Context()).Info("adjacency built",
				"nodes", m.Nodes, "edges", m.Edges, "loops", m.Loops, "dropped", m.Dropped)

			return writeTo(out, a.stdout, func(w io.Writer) error {
				return convert.AdjacencyCSV(res, w)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV (default stdout)")
	cmd.Flags().StringVar(&discovery, "discovery", "", "concatenated or interleaved (default columns.discovery)")

	return cmd
}

func (a *app) matCmd() *cobra.Command {
	var catalog, inDir, outDir, mode string
	var underscores bool
	cmd := &cobra.Command{
		Use:   "mat [web.csv ...]",
		Short: "Convert food-web CSVs to MATLAB MAT-files",
		Long: `mat converts every web listed in the catalog, or the CSV files given as
arguments, into Level 5 MAT-files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := convert.ParseMATMode(pick(mode, a.cfg.MatFile.Mode))
			if err != nil {
				return err
			}
			outDir = pick(outDir, a.cfg.Paths.MatDir)

			if len(args) > 0 {
				if err = os.MkdirAll(outDir, 0o755); err != nil {
					return err
				}
				for _, path := range args {
					res, err := buildWeb(path, a.extractOptions())
					if err != nil {
						return err
					}
					stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					dst := filepath.Join(outDir, stem+".mat")
					err = writeTo(dst, nil, func(w io.Writer) error {
						return convert.WebToMAT(res, w, m)
					})
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(a.stdout, "%d mat files written to %s\n", len(args), outDir)
				return nil
			}

			inDir = pick(inDir, a.cfg.Paths.WebDir)
			cat, err := extract.ReadCatalogFile(pick(catalog, filepath.Join(inDir, extract.CatalogFile)))
			if err != nil {
				return err
			}
			n, err := convert.CatalogToMAT(ctx, cat, convert.MATJob{
				InDir:       inDir,
				OutDir:      outDir,
				Mode:        m,
				Underscores: underscores || a.cfg.MatFile.Underscores,
				Columns:     a.extractOptions(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%d mat files written to %s\n", n, outDir)

			return nil
		},
	}
	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog CSV (default <in-dir>/"+extract.CatalogFile+")")
	cmd.Flags().StringVar(&inDir, "in-dir", "", "per-web CSV directory (default paths.web_dir)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "MAT-file directory (default paths.mat_dir)")
	cmd.Flags().StringVar(&mode, "mode", "", "sparse or classified (default matfile.mode)")
	cmd.Flags().BoolVar(&underscores, "underscores", false, "web file names use '_' for spaces")

	return cmd
}

// ErrOverwriteInput is returned when an output path names the input file.
var ErrOverwriteInput = errors.New("cli: output would overwrite input")

func (a *app) txt2csvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "txt2csv <log.txt> [out.csv]",
		Short: "Convert a pipe-delimited experiment table to CSV",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			out := strings.TrimSuffix(in, filepath.Ext(in)) + ".csv"
			if len(args) == 2 {
				out = args[1]
			}
			if sameFile(in, out) {
				return fmt.Errorf("%w: %s", ErrOverwriteInput, out)
			}
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			var rows int
			err = writeTo(out, nil, func(w io.Writer) error {
				rows, err = convert.PipeTableToCSV(f, w)
				return err
			})
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			fmt.Fprintf(a.stdout, "%d rows written to %s\n", rows, out)

			return nil
		},
	}
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <in.csv> <out.csv>",
		Short: "Rename database columns to camelCase and add bodyMassRatio",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := table.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err = convert.RenameColumns(t, convert.CamelCase); err != nil {
				return err
			}
			if dir := filepath.Dir(args[1]); dir != "." {
				if err = os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}

			return t.WriteFile(args[1])
		},
	}
}

func (a *app) aucCmd() *cobra.Command {
	var (
		catalog, dir, pattern, ext string
		pooledOut, sourceOut       string
		keys                       []int
		underscores                bool
	)
	cmd := &cobra.Command{
		Use:   "auc [log ...]",
		Short: "Aggregate AUC scores from experiment logs",
		Long: `auc averages the scores found in experiment logs by group key. Logs are
the files given as arguments (labelled by file name) or, without arguments,
<dir>/<web><ext> for every web in the catalog ordered by edge count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := auclog.NewParser(pick(pattern, a.cfg.AUC.Pattern))
			if err != nil {
				return err
			}

			var sources []auclog.Source
			if len(args) > 0 {
				for _, path := range args {
					label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					sources = append(sources, auclog.Source{Label: label, Path: path})
				}
			} else {
				if sources, err = a.catalogSources(ctx, catalog, pick(dir, a.cfg.Paths.ResultDir),
					pick(ext, a.cfg.AUC.Ext), underscores); err != nil {
					return err
				}
			}

			sum, err := auclog.Aggregate(ctx, p, sources...)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				keys = a.cfg.AUC.Keys
			}
			if len(keys) == 0 {
				keys = sum.Keys()
			}

			if pooledOut != "" {
				if err = writeTo(pooledOut, nil, func(w io.Writer) error {
					return sum.WritePooledCSV(w, keys)
				}); err != nil {
					return err
				}
			}
			if err = writeTo(sourceOut, a.stdout, func(w io.Writer) error {
				return sum.WriteSourceCSV(w, keys)
			}); err != nil {
				return err
			}

			return a.withStore(ctx, func(s *store.Store) error {
				_, err := s.SaveSummary(ctx, p.Pattern(), sum)
				return err
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&catalog, "catalog", "", "catalog CSV (default <paths.web_dir>/"+extract.CatalogFile+")")
	f.StringVar(&dir, "dir", "", "log directory (default paths.result_dir)")
	f.StringVar(&pattern, "pattern", "", "record pattern with 3 groups (default auc.pattern)")
	f.StringVar(&ext, "ext", "", "log file extension (default auc.ext)")
	f.StringVar(&pooledOut, "pooled", "", "write pooled means CSV here")
	f.StringVarP(&sourceOut, "out", "o", "", "per-source means CSV (default stdout)")
	f.IntSliceVar(&keys, "keys", nil, "group keys to report (default auc.keys, else all observed)")
	f.BoolVar(&underscores, "underscores", false, "log file names use '_' for spaces")

	return cmd
}

// catalogSources lists one log per catalog web, ordered by edge count.
func (a *app) catalogSources(ctx context.Context, catalog, dir, ext string, underscores bool) ([]auclog.Source, error) {
	path := pick(catalog, filepath.Join(a.cfg.Paths.WebDir, extract.CatalogFile))
	cat, err := extract.ReadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	names := cat.SortByEdges().Names()
	sources := make([]auclog.Source, len(names))
	for i, n := range names {
		sources[i] = auclog.Source{Label: n, Path: filepath.Join(dir, extract.FileName(n, underscores)+ext)}
	}
	ctxlog.FromContext(ctx).Debug("sources from catalog", "catalog", path, "count", len(sources))

	return sources, nil
}

func (a *app) extractOptions() extract.Options {
	return extract.Options{
		WebCol:      a.cfg.Columns.Foodweb,
		ConsumerCol: a.cfg.Columns.Consumer,
		ResourceCol: a.cfg.Columns.Resource,
		Discovery:   a.cfg.Discovery(),
	}
}

func buildWeb(path string, opts extract.Options) (*adjacency.Result, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	recs, err := adjacency.FromTable(t, opts.ConsumerCol, opts.ResourceCol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return adjacency.Build(recs, adjacency.WithDiscovery(opts.Discovery))
}

// sameFile reports whether a and b name the same file, by path or by identity.
func sameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}

	return os.SameFile(ai, bi)
}

// writeTo runs fn against the file at path, or against fallback when path is
// empty.
func writeTo(path string, fallback io.Writer, fn func(io.Writer) error) (err error) {
	if path == "" {
		return fn(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(f)
}
