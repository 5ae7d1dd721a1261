package resolve

import (
	"unicode/utf8"

	"github.com/matsen/modscsl/internal/mods"
)

const (
	pathTitle         = "/mods:mods/mods:titleInfo/mods:title"
	pathTitleSubtitle = "../mods:subTitle"
	pathTitleNonSort  = "../mods:nonSort"
)

// Title returns the longest composed title of the record. Titles are
// composed as "nonSort title: subTitle"; when several titleInfo elements are
// present (translated, abbreviated, uniform ...) the fullest one is usually
// the one to cite. Ties go to the first in document order.
func Title(rec *mods.Record) (string, bool) {
	best, bestLen := "", 0
	for _, t := range rec.All(pathTitle) {
		base := t.Text()
		if base == "" {
			continue
		}
		composed := composeTitle(base, t.FirstOr(pathTitleSubtitle), t.FirstOr(pathTitleNonSort))
		if n := utf8.RuneCountInString(composed); n > bestLen {
			best, bestLen = composed, n
		}
	}
	return best, best != ""
}

func composeTitle(base, subtitle, nonSort string) string {
	title := base
	if subtitle != "" {
		title += ": " + subtitle
	}
	if nonSort != "" {
		title = nonSort + " " + title
	}
	return title
}
