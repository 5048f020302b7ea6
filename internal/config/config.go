// Package config holds runtime constants and the monty.yaml configuration.
//
// monty.yaml is optional. When present it sets defaults for the CLI:
//
//	mode: iter          # default execution mode for scenarios without a directive
//	history: runs.db    # SQLite file recording run history (empty disables it)
//	color: auto         # auto, always or never
//	log_level: debug    # zap level name
//	fail_fast: true     # stop at the first failing scenario
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level monty.yaml configuration.
type Config struct {
	// Mode is the default execution mode ("direct" or "iter").
	Mode string `yaml:"mode,omitempty"`

	// History is the path of the SQLite run-history database. Relative paths
	// resolve against the directory holding the config file.
	History string `yaml:"history,omitempty"`

	// Color controls coloured report output.
	Color string `yaml:"color,omitempty"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// FailFast stops a run at the first failing scenario.
	FailFast bool `yaml:"fail_fast,omitempty"`
}

// Default returns the configuration used when no monty.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a monty.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	if cfg.History != "" && !filepath.IsAbs(cfg.History) {
		cfg.History = filepath.Join(filepath.Dir(path), cfg.History)
	}
	return cfg, nil
}

// ParseConfig parses monty.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for monty.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Mode != "" && !ValidMode(c.Mode) {
		return fmt.Errorf("%s: mode %q is not one of %v", path, c.Mode, Modes)
	}
	if c.Color != "" && !lo.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return fmt.Errorf("%s: color %q must be auto, always or never", path, c.Color)
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%s: log_level: %w", path, err)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Mode == "" {
		c.Mode = DefaultMode
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// ValidMode reports whether mode names a known execution mode.
func ValidMode(mode string) bool {
	return lo.Contains(Modes, mode)
}
