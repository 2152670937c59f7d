// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/foodweb/adjacency"
	"github.com/katalvlaran/foodweb/auclog"
	"github.com/katalvlaran/foodweb/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "con.taxonomy", cfg.Columns.Consumer)
	assert.Equal(t, auclog.DefaultPattern, cfg.AUC.Pattern)
	assert.Equal(t, adjacency.Concatenated, cfg.Discovery())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, "foodweb.yaml", `
log:
  level: debug
columns:
  consumer: consumer
  discovery: interleaved
auc:
  keys: [5, 10, 15]
matfile:
  mode: classified
  underscores: true
store:
  path: results.db
`)
	env := writeFile(t, "empty.env", "")
	t.Setenv("FOODWEB_LOG_LEVEL", "warn")
	t.Setenv("FOODWEB_AUC_KEYS", "3, 4")

	cfg, err := config.Load(path, env)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "warn", cfg.Log.Level, "env beats yaml")
	assert.Equal(t, "text", cfg.Log.Format, "default kept")
	assert.Equal(t, "consumer", cfg.Columns.Consumer)
	assert.Equal(t, "res.taxonomy", cfg.Columns.Resource)
	assert.Equal(t, adjacency.Interleaved, cfg.Discovery())
	assert.Equal(t, []int{3, 4}, cfg.AUC.Keys)
	assert.Equal(t, "classified", cfg.MatFile.Mode)
	assert.True(t, cfg.MatFile.Underscores)
	assert.Equal(t, "results.db", cfg.Store.Path)
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "FOODWEB_MAT_DIR"
	if _, set := os.LookupEnv(key); set {
		t.Skip(key + " set in the environment")
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	env := writeFile(t, "test.env", key+"=/tmp/mat\n")
	cfg, err := config.Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mat", cfg.Paths.MatDir)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	_, err = config.Load(writeFile(t, "bad.yaml", "log: [unclosed"))
	require.Error(t, err)

	_, err = config.Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Columns.Consumer = ""
	cfg.Columns.Discovery = "random"
	cfg.AUC.Pattern = `(\d+)`
	cfg.MatFile.Mode = "hdf5"
	cfg.Clean.Sigma = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalid)
	require.ErrorIs(t, err, auclog.ErrPatternGroups)
	for _, frag := range []string{"columns.", "discovery", "mat mode", "sigma", "log.format"} {
		assert.Contains(t, err.Error(), frag)
	}
}
