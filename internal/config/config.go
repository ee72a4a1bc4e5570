// Package config loads the driver's YAML configuration file, following
// the teacher's schema loader: unmarshal with yaml.v3, fall back to a
// documented default on any error rather than refusing to start.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the line driver's prompt, colorization, default
// snapshot directory, and the catalog's sizing knobs.
type Config struct {
	Prompt          string `yaml:"prompt"`
	Color           bool   `yaml:"color"`
	SnapshotDir     string `yaml:"snapshot_dir"`
	InitialCapacity int    `yaml:"initial_capacity"`
	MaxTables       int    `yaml:"max_tables"`
}

// Default returns the configuration used when no file is given, or when
// loading one fails.
func Default() *Config {
	return &Config{
		Prompt:          "miniql> ",
		Color:           true,
		SnapshotDir:     ".",
		InitialCapacity: 16,
		MaxTables:       128,
	}
}

// Load reads and parses a YAML config file. Missing fields keep their
// Default() value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path if non-empty, falling back to Default() on any
// error — mirroring the teacher's "cfg, err := LoadConfig(...); if err !=
// nil { cfg = DefaultConfig() }" convention so a bad config file never
// prevents the driver from starting.
func LoadOrDefault(path string) *Config {
	if path == "" {
		return Default()
	}
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}
