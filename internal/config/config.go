// SPDX-License-Identifier: MIT

// Package config loads pipeline settings: defaults, then an optional YAML
// file, then environment variables (a .env file is read first when present).
// CLI flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/foodweb/adjacency"
	"github.com/katalvlaran/foodweb/auclog"
	"github.com/katalvlaran/foodweb/convert"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "FOODWEB_"

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ColumnsConfig struct {
	Foodweb   string `yaml:"foodweb"`
	Consumer  string `yaml:"consumer"`
	Resource  string `yaml:"resource"`
	Discovery string `yaml:"discovery"`
}

type PathsConfig struct {
	Database  string `yaml:"database"`   // raw interaction CSV
	Cleaned   string `yaml:"cleaned"`    // cleaned CSV output
	WebDir    string `yaml:"web_dir"`    // per-web CSVs and catalog
	MatDir    string `yaml:"mat_dir"`    // MAT-file output
	ResultDir string `yaml:"result_dir"` // experiment logs
}

type AUCConfig struct {
	Pattern string `yaml:"pattern"`
	Ext     string `yaml:"ext"`
	Keys    []int  `yaml:"keys"`
}

type CleanConfig struct {
	Fill        string   `yaml:"fill"`
	Sigma       float64  `yaml:"sigma"`
	OutlierCols []string `yaml:"outlier_cols"`
	EncodeCols  []string `yaml:"encode_cols"`
}

type MatFileConfig struct {
	Mode        string `yaml:"mode"`
	Underscores bool   `yaml:"underscores"`
}

type StoreConfig struct {
	Path string `yaml:"path"` // empty disables persistence
}

// Config is the full settings tree.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Columns ColumnsConfig `yaml:"columns"`
	Paths   PathsConfig   `yaml:"paths"`
	AUC     AUCConfig     `yaml:"auc"`
	Clean   CleanConfig   `yaml:"clean"`
	MatFile MatFileConfig `yaml:"matfile"`
	Store   StoreConfig   `yaml:"store"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Columns: ColumnsConfig{
			Foodweb:   "foodweb.name",
			Consumer:  "con.taxonomy",
			Resource:  "res.taxonomy",
			Discovery: adjacency.Concatenated.String(),
		},
		Paths: PathsConfig{
			WebDir:    "foodwebs",
			MatDir:    "foodwebs_mat",
			ResultDir: "result",
		},
		AUC: AUCConfig{Pattern: auclog.DefaultPattern, Ext: ".txt"},
		Clean: CleanConfig{
			Fill:        "NA",
			Sigma:       3,
			OutlierCols: []string{"latitude"},
			EncodeCols:  []string{"interaction.classification", "con.taxonomy"},
		},
		MatFile: MatFileConfig{Mode: string(convert.Sparse)},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. envFiles are loaded with godotenv
// before the environment is read; with none given, a .env in the working
// directory is used if it exists. Variables already set are not overridden.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: env file: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Columns.Foodweb = getEnv("COLUMN_FOODWEB", c.Columns.Foodweb)
	c.Columns.Consumer = getEnv("COLUMN_CONSUMER", c.Columns.Consumer)
	c.Columns.Resource = getEnv("COLUMN_RESOURCE", c.Columns.Resource)
	c.Columns.Discovery = getEnv("DISCOVERY", c.Columns.Discovery)

	c.Paths.Database = getEnv("DATABASE", c.Paths.Database)
	c.Paths.Cleaned = getEnv("CLEANED", c.Paths.Cleaned)
	c.Paths.WebDir = getEnv("WEB_DIR", c.Paths.WebDir)
	c.Paths.MatDir = getEnv("MAT_DIR", c.Paths.MatDir)
	c.Paths.ResultDir = getEnv("RESULT_DIR", c.Paths.ResultDir)

	c.AUC.Pattern = getEnv("AUC_PATTERN", c.AUC.Pattern)
	c.AUC.Ext = getEnv("AUC_EXT", c.AUC.Ext)
	c.AUC.Keys = getEnvInts("AUC_KEYS", c.AUC.Keys)

	c.Clean.Fill = getEnv("CLEAN_FILL", c.Clean.Fill)
	c.Clean.Sigma = getEnvFloat("CLEAN_SIGMA", c.Clean.Sigma)

	c.MatFile.Mode = getEnv("MAT_MODE", c.MatFile.Mode)
	c.MatFile.Underscores = getEnvBool("MAT_UNDERSCORES", c.MatFile.Underscores)

	c.Store.Path = getEnv("STORE_PATH", c.Store.Path)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Columns.Foodweb == "" || c.Columns.Consumer == "" || c.Columns.Resource == "" {
		errs = append(errs, errors.New("columns.foodweb, columns.consumer and columns.resource are required"))
	}
	if _, err := adjacency.ParseDiscovery(c.Columns.Discovery); err != nil {
		errs = append(errs, err)
	}
	if _, err := auclog.NewParser(c.AUC.Pattern); err != nil {
		errs = append(errs, err)
	}
	if _, err := convert.ParseMATMode(c.MatFile.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Clean.Sigma <= 0 {
		errs = append(errs, fmt.Errorf("clean.sigma must be positive, got %v", c.Clean.Sigma))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Discovery returns the parsed discovery order (Concatenated when invalid).
func (c *Config) Discovery() adjacency.Discovery {
	d, _ := adjacency.ParseDiscovery(c.Columns.Discovery)
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvInts reads a comma-separated integer list; any bad item keeps the default.
func getEnvInts(key string, defaultValue []int) []int {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
