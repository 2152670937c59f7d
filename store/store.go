// SPDX-License-Identifier: MIT

// Package store persists food-web catalogs and score aggregation runs in a
// SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/foodweb/auclog"
	"github.com/katalvlaran/foodweb/extract"
	"github.com/katalvlaran/foodweb/internal/ctxlog"

	_ "modernc.org/sqlite"
)

// PooledSource labels the rows of a run that hold pooled means.
const PooledSource = "(pooled)"

var (
	// ErrRunNotFound is returned when a run ID is unknown.
	ErrRunNotFound = errors.New("store: run not found")

	// ErrReservedSource is returned when a summary has a source labelled PooledSource.
	ErrReservedSource = errors.New("store: source label reserved for pooled means")
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog (
	foodweb     TEXT PRIMARY KEY,
	nodes       INTEGER NOT NULL,
	edges       INTEGER NOT NULL,
	connectance REAL NOT NULL,
	basal       INTEGER NOT NULL DEFAULT 0,
	top         INTEGER NOT NULL DEFAULT 0,
	max_level   INTEGER NOT NULL DEFAULT 0,
	position    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS auc_runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	pattern    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS auc_means (
	run_id    TEXT NOT NULL,
	source    TEXT NOT NULL,
	group_key INTEGER NOT NULL,
	mean      REAL,
	n         INTEGER NOT NULL,
	PRIMARY KEY (run_id, source, group_key),
	FOREIGN KEY (run_id) REFERENCES auc_runs(id) ON DELETE CASCADE
);
`

// Store wraps the database handle.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates (if needed) and opens the database at path, applying the schema.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA foreign_keys=ON", schema} {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: init: %w", err)
		}
	}
	ctxlog.FromContext(ctx).Debug("store opened", "path", path)

	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveCatalog replaces the stored catalog with cat.
func (s *Store) SaveCatalog(ctx context.Context, cat extract.Catalog) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM catalog`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog
			(foodweb, nodes, edges, connectance, basal, top, max_level, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, e := range cat {
			if _, err = stmt.ExecContext(ctx, e.Foodweb, e.Nodes, e.Edges, e.Connectance,
				e.Basal, e.Top, e.MaxTrophicLevel, i); err != nil {
				return fmt.Errorf("store: catalog %q: %w", e.Foodweb, err)
			}
		}
		return nil
	})
}

// LoadCatalog returns the stored catalog in its saved order.
func (s *Store) LoadCatalog(ctx context.Context) (extract.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT foodweb, nodes, edges, connectance, basal, top, max_level
		FROM catalog ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("store: load catalog: %w", err)
	}
	defer rows.Close()

	var out extract.Catalog
	for rows.Next() {
		var e extract.Entry
		if err = rows.Scan(&e.Foodweb, &e.Nodes, &e.Edges, &e.Connectance,
			&e.Basal, &e.Top, &e.MaxTrophicLevel); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// Run describes one stored aggregation.
type Run struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Pattern   string
}

// MeanRow is one stored mean.
type MeanRow struct {
	Source string
	Key    int
	Mean   auclog.Mean
}

// SaveSummary stores every (source, key) mean of sum plus the pooled means
// under PooledSource, and returns the new run's ID. Absent means are NULL.
func (s *Store) SaveSummary(ctx context.Context, pattern string, sum *auclog.Summary) (uuid.UUID, error) {
	for _, src := range sum.Sources() {
		if src == PooledSource {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrReservedSource, src)
		}
	}
	id := uuid.New()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO auc_runs (id, created_at, pattern) VALUES (?, ?, ?)`,
			id.String(), s.now().UTC().Format(time.RFC3339Nano), pattern); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO auc_means (run_id, source, group_key, mean, n)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		put := func(src string, k int, m auclog.Mean) error {
			mean := sql.NullFloat64{Float64: m.Value, Valid: m.Valid()}
			_, err := stmt.ExecContext(ctx, id.String(), src, k, mean, m.Count)
			return err
		}
		for _, k := range sum.Keys() {
			for _, src := range sum.Sources() {
				if err = put(src, k, sum.BySource(src, k)); err != nil {
					return err
				}
			}
			if err = put(PooledSource, k, sum.Pooled(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: save summary: %w", err)
	}
	ctxlog.FromContext(ctx).Info("aggregation run stored", "run", id.String(), "keys", len(sum.Keys()))

	return id, nil
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, pattern FROM auc_runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("store: runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var id, created string
		var r Run
		if err = rows.Scan(&id, &created, &r.Pattern); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("store: run id %q: %w", id, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("store: run %s time: %w", id, err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// RunMeans returns the means stored for run id ordered by key then source.
func (s *Store) RunMeans(ctx context.Context, id uuid.UUID) ([]MeanRow, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auc_runs WHERE id = ?`, id.String()).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("store: run means: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, group_key, mean, n FROM auc_means
		WHERE run_id = ? ORDER BY group_key, source`, id.String())
	if err != nil {
		return nil, fmt.Errorf("store: run means: %w", err)
	}
	defer rows.Close()

	var out []MeanRow
	for rows.Next() {
		var r MeanRow
		var mean sql.NullFloat64
		if err = rows.Scan(&r.Source, &r.Key, &mean, &r.Mean.Count); err != nil {
			return nil, err
		}
		if mean.Valid {
			r.Mean.Value = mean.Float64
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
