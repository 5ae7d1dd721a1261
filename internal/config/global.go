package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "modscsl"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Environment variables that override the config file.
const (
	EnvConfigPath  = "MODSCSL_CONFIG"
	EnvStrictDates = "MODSCSL_STRICT_DATES"
	EnvLogLevel    = "MODSCSL_LOG_LEVEL"
)

// GlobalConfigPath returns the path to the global config file.
// MODSCSL_CONFIG wins; otherwise respects XDG_CONFIG_HOME, defaulting to
// ~/.config/modscsl/config.yml.
func GlobalConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return ExpandPath(p)
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load reads the global config file and applies environment overrides.
func Load() (*Config, error) {
	return LoadFile(GlobalConfigPath())
}

// LoadFile reads configuration from path and applies environment overrides.
// Returns the default config (not an error) if the file doesn't exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.GenreTable = ExpandPath(cfg.GenreTable)
	cfg.RelatorTable = ExpandPath(cfg.RelatorTable)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = GetConfigValue(EnvLogLevel, c.LogLevel)

	if v := os.Getenv(EnvStrictDates); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvStrictDates, v)
		}
		c.StrictDates = strict
	}
	return nil
}

// GetConfigValue returns the environment variable value if set, otherwise
// the config value.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}
