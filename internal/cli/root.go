// SPDX-License-Identifier: MIT

// Package cli wires the pipeline packages into the foodweb command.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/foodweb/internal/config"
	"github.com/katalvlaran/foodweb/internal/ctxlog"
	"github.com/katalvlaran/foodweb/internal/logging"
	"github.com/katalvlaran/foodweb/store"
)

// app holds state shared by every subcommand of one invocation.
type app struct {
	stdout, stderr io.Writer

	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

// NewRootCmd returns the foodweb command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "foodweb",
		Short:         "Food-web dataset preparation and result aggregation",
		Long:          `foodweb cleans the interaction database, extracts one network per food web, converts networks to CSV and MAT-files, and aggregates experiment logs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env if present)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	pf.StringVar(&a.logFormat, "log-format", "", "text or json (overrides config)")

	root.AddCommand(
		a.cleanCmd(),
		a.extractCmd(),
		a.adjacencyCmd(),
		a.matCmd(),
		a.txt2csvCmd(),
		a.renameCmd(),
		a.aucCmd(),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// setup loads configuration, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.envFiles...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, a.stderr)
	cmd.SetContext(ctxlog.WithLogger(ctx, logger))

	return nil
}

// withStore opens the configured store and runs fn; without a store path it
// does nothing.
func (a *app) withStore(ctx context.Context, fn func(*store.Store) error) error {
	if a.cfg.Store.Path == "" {
		return nil
	}
	s, err := store.Open(ctx, a.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

// pick returns flag when set, otherwise fallback.
func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
