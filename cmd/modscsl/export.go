package main

import (
	"fmt"
	"io"
	"os"

	"github.com/matsen/modscsl/internal/csl"
	"github.com/matsen/modscsl/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportBib    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatBibTeX), "Output format: json, jsonl, bibtex")
	exportCmd.Flags().StringVar(&exportBib, "bib", "", "Append new entries to this BibTeX file instead of printing")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [file.jsonl|-]",
	Short: "Re-encode CSL JSONL items",
	Long: `Read CSL items written by "convert --format jsonl" and write them in
another format, or append them to a BibTeX file. Reads stdin when no file
is given.

Examples:
  modscsl export items.jsonl > refs.bib
  modscsl export items.jsonl --bib refs.bib
  modscsl convert records/*.xml -f jsonl | modscsl export --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	in := stdinInput
	if len(args) == 1 {
		in = args[0]
	}
	recs, err := readItems(cmd.InOrStdin(), in)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	return writeRecords(cmd.OutOrStdout(), recs, format, exportBib)
}

// readItems reads CSL JSONL items from stdin or a file.
func readItems(stdin io.Reader, in string) ([]csl.Record, error) {
	if in == stdinInput {
		recs, err := export.ReadJSONL(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return recs, nil
	}

	f, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", in, err)
	}
	defer f.Close()

	recs, err := export.ReadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in, err)
	}
	return recs, nil
}
