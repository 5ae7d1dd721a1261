// Package config handles the global modscsl configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matsen/modscsl/internal/codetable"
	"github.com/matsen/modscsl/internal/fetch"
	"go.uber.org/zap/zapcore"
)

// Config represents configuration stored in ~/.config/modscsl/config.yml.
type Config struct {
	GenreTable   string      `yaml:"genre_table,omitempty" json:"genre_table,omitempty"`     // YAML code-table overrides for genres
	RelatorTable string      `yaml:"relator_table,omitempty" json:"relator_table,omitempty"` // YAML code-table overrides for relator codes
	StrictDates  bool        `yaml:"strict_dates,omitempty" json:"strict_dates"`
	EscapeHTML   bool        `yaml:"escape_html,omitempty" json:"escape_html"`
	LogLevel     string      `yaml:"log_level,omitempty" json:"log_level"`
	Fetch        FetchConfig `yaml:"fetch,omitempty" json:"fetch"`
}

// FetchConfig configures retrieval of documents given by URL.
type FetchConfig struct {
	RateLimit float64 `yaml:"rate_limit,omitempty" json:"rate_limit"` // requests per second
	Timeout   string  `yaml:"timeout,omitempty" json:"timeout"`       // Go duration, e.g. "30s"
	UserAgent string  `yaml:"user_agent,omitempty" json:"user_agent"`
}

var (
	// ErrInvalidLogLevel is returned for an unrecognized log_level.
	ErrInvalidLogLevel = errors.New("invalid log_level")

	// ErrInvalidValue is returned for any other malformed setting.
	ErrInvalidValue = errors.New("invalid config value")
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Fetch: FetchConfig{
			RateLimit: fetch.DefaultRateLimit,
			Timeout:   fetch.DefaultTimeout.String(),
			UserAgent: fetch.DefaultUserAgent,
		},
	}
}

// Validate checks the values that are parsed lazily.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.FetchTimeout(); err != nil {
		return err
	}
	if c.Fetch.RateLimit < 0 {
		return fmt.Errorf("%w: fetch.rate_limit must not be negative", ErrInvalidValue)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return lvl, nil
}

// FetchTimeout returns the per-request timeout, or the fetch default when
// unset.
func (c *Config) FetchTimeout() (time.Duration, error) {
	if c.Fetch.Timeout == "" {
		return fetch.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: fetch.timeout %q", ErrInvalidValue, c.Fetch.Timeout)
	}
	return d, nil
}

// Tables returns the built-in code tables with the configured override files
// merged over them. The genre table is applied before the relator table.
func (c *Config) Tables() (*codetable.Tables, error) {
	tables := codetable.Default()
	for _, path := range []string{c.GenreTable, c.RelatorTable} {
		if path == "" {
			continue
		}
		override, err := codetable.Load(ExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		tables = tables.Merge(override)
	}
	return tables, nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
