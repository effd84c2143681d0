// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "UIDECODE_CONFIG"

// Compression values for Output.Compression.
const (
	CompressionNone = "none"
	CompressionLZ4  = "lz4"
	CompressionZstd = "zstd"
)

// Color values for Output.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the master configuration.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Batch configures whole-tree conversion runs.
	Batch BatchConfig `yaml:"batch"`

	// Output configures how documents are written.
	Output OutputConfig `yaml:"output"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Data is the root of the game data tree. Layout files are found
	// at <data>/<game>/<file>.
	Data string `yaml:"data"`

	// Output is where converted documents are written, mirroring the
	// data tree.
	Output string `yaml:"output"`

	// Catalog is the SQLite result catalog file. Empty means
	// catalog.sqlite under Output.
	Catalog string `yaml:"catalog"`
}

// BatchConfig configures whole-tree conversion runs.
type BatchConfig struct {
	// Workers is the number of files converted concurrently. Zero means
	// one worker per CPU.
	Workers int `yaml:"workers"`

	// PerFileTimeout bounds the time spent on one file, as a Go
	// duration string. Empty disables the bound.
	PerFileTimeout string `yaml:"per_file_timeout"`

	// Games restricts the run to these game directory names. Empty
	// means every game.
	Games []string `yaml:"games"`

	// FuzzyGames matches Games as fuzzy patterns instead of exact names.
	FuzzyGames bool `yaml:"fuzzy_games"`

	// Extensions restricts the run to files with these extensions
	// (without the dot). Empty means every file.
	Extensions []string `yaml:"extensions"`

	// Forensic writes an analyzer report for every file, in addition
	// to the decoder document for files with a supported version.
	Forensic bool `yaml:"forensic"`

	// Force reconverts files whose digest is unchanged since the last
	// recorded run.
	Force bool `yaml:"force"`
}

// OutputConfig configures how documents are written.
type OutputConfig struct {
	// Compression is applied to stored documents: none, lz4, or zstd.
	Compression string `yaml:"compression"`

	// Color controls syntax highlighting on terminals: auto, always,
	// or never.
	Color string `yaml:"color"`
}

// Default returns the default configuration. Batch commands need at
// least Paths.Data and Paths.Output set by a config file or flags.
func Default() *Config {
	return &Config{
		Batch: BatchConfig{
			Extensions: []string{"ui", "fc", "cml"},
		},
		Output: OutputConfig{
			Compression: CompressionNone,
			Color:       ColorAuto,
		},
	}
}

// Load loads configuration from the UIDECODE_CONFIG environment
// variable. There is no fallback: if the variable is not set, this
// fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your uidecode.yaml config file, or use --config flag",
			EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, on top of
// [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.Expand()
	return cfg, nil
}

// loadFile merges one file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is valid YAML once comments and trailing commas are gone.
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Expand expands ${VAR} and ${VAR:-default} patterns in paths.
// [LoadFile] calls it; callers that set paths from flags call it again
// afterwards.
func (c *Config) Expand() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Data = expandVars(c.Paths.Data, vars)
	vars["UIDECODE_DATA"] = c.Paths.Data
	c.Paths.Output = expandVars(c.Paths.Output, vars)
	vars["UIDECODE_OUTPUT"] = c.Paths.Output
	c.Paths.Catalog = expandVars(c.Paths.Catalog, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Provided vars
// win over the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// CatalogPath returns Paths.Catalog, or catalog.sqlite under
// Paths.Output when unset. Empty when neither is configured.
func (c *Config) CatalogPath() string {
	if c.Paths.Catalog != "" {
		return c.Paths.Catalog
	}
	if c.Paths.Output != "" {
		return filepath.Join(c.Paths.Output, "catalog.sqlite")
	}
	return ""
}

// PerFileTimeout parses Batch.PerFileTimeout. Empty means no bound and
// returns zero.
func (c *Config) PerFileTimeout() (time.Duration, error) {
	if c.Batch.PerFileTimeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Batch.PerFileTimeout)
	if err != nil {
		return 0, fmt.Errorf("batch.per_file_timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("batch.per_file_timeout must not be negative, got %s", timeout)
	}
	return timeout, nil
}

// Validate checks the configuration for errors. Paths are not required
// here; commands that need them check for themselves.
func (c *Config) Validate() error {
	var errs []error

	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers))
	}
	if _, err := c.PerFileTimeout(); err != nil {
		errs = append(errs, err)
	}
	for _, extension := range c.Batch.Extensions {
		if extension == "" || strings.HasPrefix(extension, ".") {
			errs = append(errs, fmt.Errorf("batch.extensions entries are written without a dot, got %q", extension))
		}
	}

	compressions := []string{CompressionNone, CompressionLZ4, CompressionZstd}
	if !slices.Contains(compressions, c.Output.Compression) {
		errs = append(errs, fmt.Errorf("output.compression must be one of: %v", compressions))
	}
	colors := []string{ColorAuto, ColorAlways, ColorNever}
	if !slices.Contains(colors, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", colors))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the output directory and the catalog's parent
// directory if they don't exist.
func (c *Config) EnsurePaths() error {
	paths := []string{c.Paths.Output}
	if catalog := c.CatalogPath(); catalog != "" {
		paths = append(paths, filepath.Dir(catalog))
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
