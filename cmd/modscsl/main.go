// Package main provides the modscsl CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/modscsl/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string

	// Set up by the root command before any subcommand runs.
	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "modscsl",
	Short: "Convert MODS bibliographic records to CSL JSON",
	Long: `modscsl converts MODS XML records (as produced by library catalogs,
Zotero and bibutils) into CSL citation items for citeproc processors.

Records may be given as files, URLs or on stdin. Namespaced, aliased and
un-namespaced MODS documents are all accepted.

All commands output JSON by default.
Use --human for human-readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = mustLoadConfig()

		level, err := cfg.Level()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		logger, err = newLogger(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Load .env file if present (for MODSCSL_* settings)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/modscsl/config.yml)")
	rootCmd.Version = Version
}

// newLogger builds the JSON stderr logger.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// loadConfig reads the file named by --config, or the global config.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(config.ExpandPath(configPath))
	}
	return config.Load()
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	c, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return c
}
