package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matsen/modscsl/internal/fetch"
	"go.uber.org/zap/zapcore"
)

// isolate points every config lookup at an empty temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvStrictDates, "")
	t.Setenv(EnvLogLevel, "")
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	configDir := filepath.Join(dir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(configDir, GlobalConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGlobalConfigPath(t *testing.T) {
	isolate(t)

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/modscsl/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv(EnvConfigPath, "/elsewhere/modscsl.yml")
	if got, want := GlobalConfigPath(), "/elsewhere/modscsl.yml"; got != want {
		t.Errorf("GlobalConfigPath() with %s = %q, want %q", EnvConfigPath, got, want)
	}

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "modscsl", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoad_NotFound(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StrictDates || cfg.EscapeHTML {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if cfg.Fetch.RateLimit != fetch.DefaultRateLimit {
		t.Errorf("Fetch.RateLimit = %v, want %v", cfg.Fetch.RateLimit, fetch.DefaultRateLimit)
	}
}

func TestLoad_Valid(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
genre_table: ~/tables/genres.yml
strict_dates: true
escape_html: true
log_level: debug
fetch:
  rate_limit: 2
  timeout: 5s
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "tables/genres.yml"); cfg.GenreTable != want {
		t.Errorf("GenreTable = %q, want %q", cfg.GenreTable, want)
	}
	if !cfg.StrictDates || !cfg.EscapeHTML {
		t.Errorf("StrictDates/EscapeHTML = %v/%v, want true/true", cfg.StrictDates, cfg.EscapeHTML)
	}
	if lvl, _ := cfg.Level(); lvl != zapcore.DebugLevel {
		t.Errorf("Level() = %v, want debug", lvl)
	}
	if cfg.Fetch.RateLimit != 2 {
		t.Errorf("Fetch.RateLimit = %v, want 2", cfg.Fetch.RateLimit)
	}
	if d, _ := cfg.FetchTimeout(); d != 5*time.Second {
		t.Errorf("FetchTimeout() = %v, want 5s", d)
	}
	// Unset keys keep their defaults.
	if cfg.Fetch.UserAgent != fetch.DefaultUserAgent {
		t.Errorf("Fetch.UserAgent = %q, want default", cfg.Fetch.UserAgent)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "strict_dates: false\nlog_level: info\n")

	t.Setenv(EnvStrictDates, "true")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.StrictDates {
		t.Error("StrictDates should be overridden by the environment")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr error
	}{
		{name: "invalid yaml", content: "strict_dates: [unclosed"},
		{name: "bad log level", content: "log_level: loud\n", wantErr: ErrInvalidLogLevel},
		{name: "bad timeout", content: "fetch:\n  timeout: soon\n", wantErr: ErrInvalidValue},
		{name: "negative timeout", content: "fetch:\n  timeout: -1s\n", wantErr: ErrInvalidValue},
		{name: "negative rate", content: "fetch:\n  rate_limit: -1\n", wantErr: ErrInvalidValue},
		{name: "bad env bool", env: map[string]string{EnvStrictDates: "maybe"}, wantErr: ErrInvalidValue},
		{name: "bad env level", env: map[string]string{EnvLogLevel: "chatty"}, wantErr: ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.content != "" {
				writeConfig(t, dir, tt.content)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should return an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(path, []byte("escape_html: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvConfigPath, path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.EscapeHTML {
		t.Error("config named by the environment should be loaded")
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-env" {
		t.Errorf("GetConfigValue() = %q, want from-env", got)
	}

	t.Setenv("TEST_CONFIG_KEY", "")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-config" {
		t.Errorf("GetConfigValue() = %q, want from-config", got)
	}
}
