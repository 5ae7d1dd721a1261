package resolve

import (
	"strconv"
	"strings"

	"github.com/matsen/modscsl/internal/csl"
	"github.com/matsen/modscsl/internal/mods"
)

const (
	pathDateCaptured = "/mods:mods/mods:originInfo/mods:dateCaptured"
	pathDateIssued   = "/mods:mods/mods:originInfo/mods:dateIssued"
	pathDateCreated  = "/mods:mods/mods:originInfo/mods:dateCreated"
	pathSeason       = `/mods:mods/mods:originInfo/mods:dateOther[@type="season"]`
)

// Dates holds the resolved date fields; nil means absent.
type Dates struct {
	Issued   *csl.Date
	Accessed *csl.Date
}

// DateOptions controls date decomposition.
type DateOptions struct {
	// Strict emits dates with non-numeric segments as raw text instead of
	// coercing every segment to an integer.
	Strict bool
}

// ResolveDates resolves the issued and accessed dates. Dates are split on
// "-" into [year, month, day] positions whatever their encoding attribute
// says.
func ResolveDates(rec *mods.Record, opts DateOptions) Dates {
	var out Dates

	if captured, ok := rec.First(pathDateCaptured); ok {
		out.Accessed = decomposeDate(captured, opts.Strict)
	}

	if issued, ok := firstOf(rec, query(pathDateIssued), query(pathDateCreated)); ok {
		out.Issued = decomposeDate(issued, opts.Strict)
		if code, ok := seasonCode(rec.FirstOr(pathSeason)); ok && yearOnly(out.Issued) {
			out.Issued.Season = code
		}
	}

	return out
}

func decomposeDate(s string, strict bool) *csl.Date {
	segments := strings.Split(s, "-")
	parts := make([]int, len(segments))
	clean := true
	for i, seg := range segments {
		n, ok := leadingInt(seg)
		parts[i] = n
		clean = clean && ok
	}

	if strict && !clean {
		return &csl.Date{Raw: s}
	}
	return &csl.Date{Parts: [][]int{parts}}
}

func yearOnly(d *csl.Date) bool {
	return d != nil && len(d.Parts) == 1 && len(d.Parts[0]) == 1
}

// seasonCode maps a season name to its CSL code ("1" for Spring ...).
func seasonCode(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for i, s := range csl.Seasons {
		if strings.EqualFold(s, name) {
			return strconv.Itoa(i + 1), true
		}
	}
	return "", false
}
