package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/modscsl/internal/csl"
)

// TitleMaxLen is the title truncation length in human-readable summaries.
const TitleMaxLen = 70

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(os.Stderr, ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AppendResponse is the response for --bib appends.
type AppendResponse struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path   string `json:"path"`
	Config any    `json:"config"`
}

// printRecordsHuman prints a short summary of each record.
func printRecordsHuman(w io.Writer, recs []csl.Record) {
	for i, r := range recs {
		id := r.ID
		if id == "" {
			id = "(no id)"
		}
		if r.IsEmpty() {
			fmt.Fprintf(w, "%d. %s: no citation data\n\n", i+1, id)
			continue
		}
		fmt.Fprintf(w, "%d. %s [%s]\n", i+1, id, r.Type)
		if r.Title != "" {
			fmt.Fprintf(w, "   %s\n", truncateString(r.Title, TitleMaxLen))
		}
		line := formatNamesShort(r.Author, 3)
		if y := r.Issued.Year(); y != 0 {
			line = strings.TrimSpace(fmt.Sprintf("%s (%d)", line, y))
		}
		if line != "" {
			fmt.Fprintf(w, "   %s\n", line)
		}
		if r.ContainerTitle != "" {
			fmt.Fprintf(w, "   In: %s\n", truncateString(r.ContainerTitle, TitleMaxLen))
		}
		fmt.Fprintln(w)
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatNameShort formats a name as "Family G" (abbreviated given name).
func formatNameShort(n csl.Name) string {
	if n.Kind == csl.Corporate {
		return n.Literal
	}
	family, given := n.Parts["family"], []rune(n.Parts["given"])
	switch {
	case family != "" && len(given) > 0:
		return family + " " + string(given[0])
	case family != "":
		return family
	}
	return n.Parts["literal"]
}

// formatNamesShort formats names with abbreviation and "et al." for more than maxCount.
func formatNamesShort(names []csl.Name, maxCount int) string {
	var out []string
	for i, n := range names {
		if i >= maxCount {
			out = append(out, "et al.")
			break
		}
		if s := formatNameShort(n); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}
