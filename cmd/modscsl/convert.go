package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/matsen/modscsl/internal/codetable"
	"github.com/matsen/modscsl/internal/config"
	"github.com/matsen/modscsl/internal/csl"
	"github.com/matsen/modscsl/internal/export"
	"github.com/matsen/modscsl/internal/fetch"
	"github.com/matsen/modscsl/internal/resolve"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// stdinInput names standard input on the command line.
const stdinInput = "-"

var (
	convertID          string
	convertFormat      string
	convertJobs        int
	convertEscape      bool
	convertStrictDates bool
	convertBib         string
	convertTables      string
)

func init() {
	convertCmd.Flags().StringVar(&convertID, "id", "", "Item id (single input only; default: input file name)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", string(export.FormatJSON), "Output format: json, jsonl, bibtex")
	convertCmd.Flags().IntVarP(&convertJobs, "jobs", "j", runtime.NumCPU(), "Number of inputs converted in parallel")
	convertCmd.Flags().BoolVar(&convertEscape, "escape", false, "HTML-escape every string value")
	convertCmd.Flags().BoolVar(&convertStrictDates, "strict-dates", false, "Emit malformed dates as raw text")
	convertCmd.Flags().StringVar(&convertBib, "bib", "", "Append new entries to this BibTeX file instead of printing")
	convertCmd.Flags().StringVar(&convertTables, "tables", "", "Extra code-table YAML merged over the configured tables")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [file|url|-]...",
	Short: "Convert MODS records to CSL JSON",
	Long: `Convert MODS records to CSL citation items.

Each input is a file, an http(s) URL, or "-" for stdin (the default). An
input that is not well-formed XML yields an empty item and a warning on
stderr; it does not stop the batch. Output preserves input order.

Examples:
  modscsl convert record.xml
  modscsl convert --format jsonl records/*.xml > items.jsonl
  modscsl convert --id smith2020 < record.xml
  modscsl convert https://example.org/mods/123 --format bibtex
  modscsl convert records/*.xml --bib refs.bib`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputs := args
	if len(inputs) == 0 {
		inputs = []string{stdinInput}
	}
	if err := checkInputs(inputs); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	format, err := export.ParseFormat(convertFormat)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	conv := mustBuildConverter(cmd, cfg)
	fetcher := mustBuildFetcher(cfg)

	recs, err := convertAll(cmd.Context(), conv, fetcher, cmd.InOrStdin(), inputs, convertJobs)
	if err != nil {
		exitWithError(ExitDataError, "%s", describeInputError(err))
	}

	if convertID != "" {
		recs[0].ID = convertID
	}
	export.UniqueIDs(recs)

	return writeRecords(cmd.OutOrStdout(), recs, format, convertBib)
}

// checkInputs rejects argument lists convert cannot serve.
func checkInputs(inputs []string) error {
	if convertID != "" && len(inputs) > 1 {
		return fmt.Errorf("--id applies to a single input, got %d", len(inputs))
	}
	stdin := 0
	for _, in := range inputs {
		if in == stdinInput {
			stdin++
		}
	}
	if stdin > 1 {
		return fmt.Errorf("stdin (%q) can be read only once, given %d times", stdinInput, stdin)
	}
	return nil
}

// describeInputError adds a hint for HTTP failures the user can act on.
func describeInputError(err error) string {
	switch {
	case fetch.IsNotFound(err):
		return fmt.Sprintf("%v: no record at this URL", err)
	case fetch.IsRateLimited(err):
		return fmt.Sprintf("%v: the server is throttling requests, lower fetch.rate_limit", err)
	}
	return err.Error()
}

// writeRecords prints recs in format, or appends them to bibPath when set.
func writeRecords(out io.Writer, recs []csl.Record, format export.Format, bibPath string) error {
	if bibPath != "" {
		path := config.ExpandPath(bibPath)
		added, err := export.AppendToBibFile(path, recs)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Fprintf(out, "Added %d of %d entries to %s\n", added, len(recs), path)
			return nil
		}
		return outputJSON(out, AppendResponse{
			Status:  "appended",
			Path:    path,
			Added:   added,
			Skipped: len(recs) - added,
		})
	}

	if humanOutput && format == export.FormatJSON {
		printRecordsHuman(out, recs)
		return nil
	}
	return export.Write(out, format, recs)
}

// mustBuildConverter creates the converter from the config and flags,
// exits on error.
func mustBuildConverter(cmd *cobra.Command, c *config.Config) *resolve.Converter {
	tables, err := c.Tables()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if convertTables != "" {
		extra, err := codetable.Load(config.ExpandPath(convertTables))
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		tables = tables.Merge(extra)
	}

	strict := c.StrictDates
	if cmd.Flags().Changed("strict-dates") {
		strict = convertStrictDates
	}
	escape := c.EscapeHTML
	if cmd.Flags().Changed("escape") {
		escape = convertEscape
	}

	return resolve.NewConverter(
		resolve.WithTables(tables),
		resolve.WithLogger(logger),
		resolve.WithStrictDates(strict),
		resolve.WithEscaping(escape),
	)
}

// mustBuildFetcher creates the HTTP client for URL inputs, exits on error.
func mustBuildFetcher(c *config.Config) *fetch.Client {
	timeout, err := c.FetchTimeout()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return fetch.NewClient(
		fetch.WithRateLimit(c.Fetch.RateLimit),
		fetch.WithTimeout(timeout),
		fetch.WithUserAgent(c.Fetch.UserAgent),
	)
}

// convertAll converts every input, at most jobs at a time. Results keep the
// order of inputs. An input that cannot be read stops the batch; one that
// cannot be parsed only yields an empty record.
func convertAll(ctx context.Context, conv *resolve.Converter, fetcher *fetch.Client, stdin io.Reader, inputs []string, jobs int) ([]csl.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}

	recs := make([]csl.Record, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			start := time.Now()
			data, err := readInput(ctx, fetcher, stdin, in)
			if err != nil {
				return err
			}
			rec := conv.ConvertBytes(data, in)
			rec.ID = itemID(in)
			recs[i] = rec

			logger.Debug("converted",
				zap.String("source", in),
				zap.String("type", rec.Type),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recs, nil
}

// readInput returns the raw document named by in.
func readInput(ctx context.Context, fetcher *fetch.Client, stdin io.Reader, in string) ([]byte, error) {
	switch {
	case in == stdinInput:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	case fetch.IsURL(in):
		data, err := fetcher.Fetch(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", in, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in, err)
	}
	return data, nil
}

// itemID derives an item id from an input name: the file or URL path base
// without its extension. stdin has none.
func itemID(in string) string {
	if in == stdinInput {
		return ""
	}

	base := filepath.Base(in)
	if fetch.IsURL(in) {
		u, err := url.Parse(in)
		if err != nil {
			return ""
		}
		base = path.Base(u.Path)
		if base == "/" || base == "." {
			return u.Host
		}
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
