// Package config handles viewgen configuration: defaults, an optional YAML
// file, a .env file, and environment overrides.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"viewgen/internal/domain"
)

// Environment variables read by LoadFromEnv.
const (
	EnvConfigPath = "VIEWGEN_CONFIG"
	EnvDriver     = "VIEWGEN_DRIVER"
	EnvDSN        = "VIEWGEN_DSN"
	EnvLogLevel   = "VIEWGEN_LOG_LEVEL"
	EnvOutput     = "VIEWGEN_OUTPUT"
	EnvMinSupport = "VIEWGEN_MIN_SUPPORT"
	EnvWindow     = "VIEWGEN_WINDOW"
)

// MovingDefaults are applied to moving-window pivots that leave the
// corresponding settings unset.
type MovingDefaults struct {
	Window     []int64 `yaml:"window"`
	MinSupport int     `yaml:"min_support"`
	Aggregate  string  `yaml:"aggregate"`
}

// Config holds the CLI and manifest configuration.
type Config struct {
	Driver   string         `yaml:"driver"`    // database/sql driver: sqlite3, sqlite, duckdb
	DSN      string         `yaml:"dsn"`       // data source name; empty is in-memory for duckdb
	LogLevel string         `yaml:"log_level"` // debug, info, warn, error (default "warn")
	Output   string         `yaml:"output"`    // table or json (default "table")
	Moving   MovingDefaults `yaml:"moving"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Driver:   "sqlite3",
		LogLevel: "warn",
		Output:   "table",
		Moving: MovingDefaults{
			Window:     []int64{90, 90},
			MinSupport: 3,
			Aggregate:  domain.DefaultMovingAggregate,
		},
	}
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// WindowSize returns the default moving window.
func (c *Config) WindowSize() (domain.WindowSize, error) {
	return domain.ParseWindowSize(c.Moving.Window...)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Driver {
	case "sqlite3", "sqlite", "duckdb":
	default:
		return fmt.Errorf("unsupported driver %q: use sqlite3, sqlite or duckdb", c.Driver)
	}
	if c.Output != "table" && c.Output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", c.Output)
	}
	if _, err := c.WindowSize(); err != nil {
		return fmt.Errorf("moving.window: %w", err)
	}
	if c.Moving.MinSupport < 0 {
		return fmt.Errorf("moving.min_support must be non-negative, got %d", c.Moving.MinSupport)
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), and the environment, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv builds the configuration from defaults and the environment,
// reading the YAML file named by VIEWGEN_CONFIG if set.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfigPath))
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDriver); v != "" {
		c.Driver = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		c.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvMinSupport); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMinSupport, err)
		}
		c.Moving.MinSupport = n
	}
	if v := os.Getenv(EnvWindow); v != "" {
		bounds, err := ParseInts(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWindow, err)
		}
		c.Moving.Window = bounds
	}
	return nil
}

// ParseInts parses a comma-separated list of integers such as "90,30".
func ParseInts(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// LoadDotEnv reads a .env file and sets environment variables that are not
// already set. Lines starting with # are comments. Empty lines are skipped.
// Format: KEY=VALUE (no export prefix, no multiline values).
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Env vars take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
