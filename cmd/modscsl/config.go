package main

import (
	"fmt"
	"strings"

	"github.com/matsen/modscsl/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration: the config file merged with
MODSCSL_* environment overrides (a .env file in the working directory is
loaded first).

Usage:
  modscsl config                 # Show all config and the file it came from
  modscsl config strict-dates    # Get a specific value

Keys:
  genre-table       YAML code-table overrides for genre terms
  relator-table     YAML code-table overrides for relator codes
  strict-dates      Emit malformed dates as raw text (true/false)
  escape-html       HTML-escape every output string (true/false)
  log-level         debug, info, warn or error
  fetch-rate-limit  URL requests per second
  fetch-timeout     Per-request timeout, e.g. 30s
  fetch-user-agent  User-Agent sent with URL requests`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := configPath
	if path == "" {
		path = config.GlobalConfigPath()
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Fprintf(out, "config file: %s\n", path)
			for _, k := range configKeys {
				v, _ := configValue(cfg, k)
				fmt.Fprintf(out, "%-17s %v\n", k+":", v)
			}
			return nil
		}
		return outputJSON(out, ConfigResponse{Path: path, Config: cfg})
	}

	key := normalizeKey(args[0])
	v, ok := configValue(cfg, key)
	if !ok {
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}
	if humanOutput {
		fmt.Fprintln(out, v)
		return nil
	}
	return outputJSON(out, map[string]any{strings.ReplaceAll(key, "-", "_"): v})
}

var configKeys = []string{
	"genre-table",
	"relator-table",
	"strict-dates",
	"escape-html",
	"log-level",
	"fetch-rate-limit",
	"fetch-timeout",
	"fetch-user-agent",
}

func configValue(c *config.Config, key string) (any, bool) {
	switch key {
	case "genre-table":
		return c.GenreTable, true
	case "relator-table":
		return c.RelatorTable, true
	case "strict-dates":
		return c.StrictDates, true
	case "escape-html":
		return c.EscapeHTML, true
	case "log-level":
		return c.LogLevel, true
	case "fetch-rate-limit":
		return c.Fetch.RateLimit, true
	case "fetch-timeout":
		return c.Fetch.Timeout, true
	case "fetch-user-agent":
		return c.Fetch.UserAgent, true
	}
	return nil, false
}

// normalizeKey converts key formats (strict-dates, strict_dates, STRICT_DATES) to consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	key = strings.ReplaceAll(key, ".", "-")
	return key
}
