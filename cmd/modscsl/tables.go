package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/matsen/modscsl/internal/codetable"
	"github.com/spf13/cobra"
)

// tableSections are the names accepted by the tables command.
var tableSections = []string{"marcgt", "local", "keywords", "relators"}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

var tablesCmd = &cobra.Command{
	Use:   "tables [section]",
	Short: "Show the effective code tables",
	Long: `Show the code tables used to classify records: the built-in tables with
any genre_table / relator_table overrides from the config merged over them.

Sections:
  marcgt    marcgt genre term -> CSL type
  local     local (Zotero) genre -> CSL type
  keywords  ordered heuristics for genres with no recognized authority
  relators  MARC relator code -> role term

Examples:
  modscsl tables
  modscsl tables relators --human`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: tableSections,
	RunE:      runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	tables, err := cfg.Tables()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if humanOutput {
			for _, s := range tableSections {
				fmt.Fprintf(out, "[%s]\n", s)
				printSectionHuman(out, tables, s)
				fmt.Fprintln(out)
			}
			return nil
		}
		return outputJSON(out, tables)
	}

	section := args[0]
	v, ok := tableSection(tables, section)
	if !ok {
		exitWithError(ExitError, "unknown table section: %s (valid: %v)", section, tableSections)
	}
	if humanOutput {
		printSectionHuman(out, tables, section)
		return nil
	}
	return outputJSON(out, v)
}

func tableSection(t *codetable.Tables, section string) (any, bool) {
	switch section {
	case "marcgt":
		return t.Marcgt, true
	case "local":
		return t.Local, true
	case "keywords":
		return t.Keywords, true
	case "relators":
		return t.Relators, true
	}
	return nil, false
}

func printSectionHuman(w io.Writer, t *codetable.Tables, section string) {
	if section == "keywords" {
		for i, k := range t.Keywords {
			fmt.Fprintf(w, "%3d. %-24s %s\n", i+1, k.Match, k.Type)
		}
		return
	}

	m, _ := tableSection(t, section)
	entries := m.(map[string]string)
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-28s %s\n", k, entries[k])
	}
}
