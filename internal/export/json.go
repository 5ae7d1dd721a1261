package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/modscsl/internal/csl"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Format is an output encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatJSONL  Format = "jsonl"
	FormatBibTeX Format = "bibtex"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatJSON, FormatJSONL, FormatBibTeX}

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat returns the Format named s, case-insensitively.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write encodes recs to w. A single record is written as a JSON object, more
// than one as an array.
func Write(w io.Writer, format Format, recs []csl.Record) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, recs)
	case FormatJSONL:
		return WriteJSONL(w, recs)
	case FormatBibTeX:
		_, err := io.WriteString(w, ToBibTeXList(recs))
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteJSON writes recs as indented JSON.
func WriteJSON(w io.Writer, recs []csl.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	var v any = recs
	if len(recs) == 1 {
		v = recs[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}

// WriteJSONL writes one record per line.
func WriteJSONL(w io.Writer, recs []csl.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return nil
}

// ReadJSONL reads records written by WriteJSONL. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]csl.Record, error) {
	var recs []csl.Record
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var rec csl.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		recs = append(recs, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return recs, nil
}

// UniqueIDs gives every record an ID not shared with an earlier one. A taken
// ID gets "-2", "-3" ... appended. recs is modified in place.
func UniqueIDs(recs []csl.Record) {
	seen := make(map[string]bool, len(recs))
	for i := range recs {
		base := recs[i].ID
		id := base
		// Start at 2: base is taken, so first duplicate becomes base-2
		for n := 2; seen[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		seen[id] = true
		recs[i].ID = id
	}
}
