package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/matsen/modscsl/internal/csl"
)

var (
	// @type{key,
	entryStartRegex = regexp.MustCompile(`@\w+\{([^,]+),`)
	// doi = {value} or doi = "value"
	doiFieldRegex = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// BibTeXIndex indexes the entries of an existing bibliography so converted
// records already present in it can be skipped.
type BibTeXIndex struct {
	// Keys holds every citation key seen
	Keys map[string]bool
	// DOIs maps normalized DOI values to citation keys
	DOIs map[string]string
}

// NewBibTeXIndex creates an empty BibTeX index.
func NewBibTeXIndex() *BibTeXIndex {
	return &BibTeXIndex{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// Has reports whether rec is already in the bibliography. DOI is the primary
// match; the citation key is the fallback when the record has no DOI.
func (idx *BibTeXIndex) Has(rec csl.Record) bool {
	if rec.DOI != "" {
		if _, exists := idx.DOIs[normalizeDOI(rec.DOI)]; exists {
			return true
		}
	}
	return idx.Keys[citationKey(rec)]
}

// Add records rec as present.
func (idx *BibTeXIndex) Add(rec csl.Record) {
	key := citationKey(rec)
	idx.Keys[key] = true
	if doi := normalizeDOI(rec.DOI); doi != "" {
		idx.DOIs[doi] = key
	}
}

// ParseBibTeX builds an index from BibTeX source.
func ParseBibTeX(r io.Reader) (*BibTeXIndex, error) {
	idx := NewBibTeXIndex()
	scanner := bufio.NewScanner(r)
	var currentKey string

	for scanner.Scan() {
		line := scanner.Text()

		if matches := entryStartRegex.FindStringSubmatch(line); len(matches) > 1 {
			currentKey = strings.TrimSpace(matches[1])
			idx.Keys[currentKey] = true
		}

		if matches := doiFieldRegex.FindStringSubmatch(line); len(matches) > 1 {
			doi := normalizeDOI(matches[1])
			if doi != "" && currentKey != "" {
				idx.DOIs[doi] = currentKey
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading bibtex: %w", err)
	}
	return idx, nil
}

// ParseBibTeXFile builds an index from a .bib file.
// Returns an empty index if the file doesn't exist.
func ParseBibTeXFile(path string) (*BibTeXIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewBibTeXIndex(), nil
		}
		return nil, fmt.Errorf("opening bibliography: %w", err)
	}
	defer f.Close()

	return ParseBibTeX(f)
}

// normalizeDOI normalizes a DOI for comparison.
// Removes common prefixes like "https://doi.org/" and lowercases.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/", "DOI:", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(doi)
}

// AppendToBibFile appends the records missing from the bibliography at path
// and returns how many were written. The file is created if needed.
func AppendToBibFile(path string, recs []csl.Record) (int, error) {
	idx, err := ParseBibTeXFile(path)
	if err != nil {
		return 0, err
	}

	var fresh []csl.Record
	for _, rec := range recs {
		if idx.Has(rec) {
			continue
		}
		idx.Add(rec)
		fresh = append(fresh, rec)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, fmt.Errorf("opening bibliography for append: %w", err)
	}
	defer f.Close()

	// Ensure we start on a new line
	if _, err := f.WriteString("\n" + ToBibTeXList(fresh)); err != nil {
		return 0, fmt.Errorf("writing bibliography: %w", err)
	}
	return len(fresh), nil
}
