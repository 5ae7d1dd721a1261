// Package export encodes assembled citation records as JSON, JSONL and
// BibTeX.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/modscsl/internal/csl"
)

// ToBibTeX converts a citation record to a BibTeX entry.
func ToBibTeX(rec csl.Record) string {
	entryType := determineEntryType(rec.Type)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, citationKey(rec)))

	field := func(name, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, value))
		}
	}

	field("author", formatNames(rec.Author))
	field("editor", formatNames(rec.Editor))
	field("title", escapeLatex(rec.Title))

	// Container
	if rec.ContainerTitle != "" {
		fieldName := "journal"
		if entryType == "inproceedings" || entryType == "incollection" {
			fieldName = "booktitle"
		}
		field(fieldName, escapeLatex(rec.ContainerTitle))
	}
	field("series", escapeLatex(rec.CollectionTitle))

	if rec.Volume != 0 {
		field("volume", fmt.Sprint(rec.Volume))
	}
	if rec.Issue != 0 {
		field("number", fmt.Sprint(rec.Issue))
	} else {
		field("number", escapeLatex(rec.Number))
	}
	field("pages", strings.ReplaceAll(rec.Page, "-", "--"))
	field("edition", escapeLatex(rec.Edition))
	field("publisher", escapeLatex(rec.Publisher))
	field("address", escapeLatex(rec.PublisherPlace))

	// Date (optional)
	if y := rec.Issued.Year(); y != 0 {
		field("year", fmt.Sprint(y))
	}
	if m := rec.Issued.Month(); m > 0 {
		field("month", fmt.Sprint(m))
	}

	field("doi", rec.DOI)
	field("isbn", rec.ISBN)
	field("url", rec.URL)
	field("abstract", escapeLatex(rec.Abstract))
	field("note", escapeLatex(strings.TrimSpace(rec.Note)))

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX, one entry per record.
func ToBibTeXList(recs []csl.Record) string {
	var entries []string
	for _, rec := range recs {
		entries = append(entries, ToBibTeX(rec))
	}
	return strings.Join(entries, "\n")
}

// determineEntryType returns the BibTeX entry type for a CSL item type.
func determineEntryType(cslType string) string {
	switch cslType {
	case csl.TypeBook:
		return "book"
	case csl.TypeChapter:
		return "incollection"
	case csl.TypePaperConference:
		return "inproceedings"
	case csl.TypeThesis:
		return "phdthesis"
	case "report":
		return "techreport"
	case "manuscript":
		return "unpublished"
	case csl.TypeArticleJournal, "article", "article-magazine", "article-newspaper":
		return "article"
	}
	return "misc"
}

// citationKey returns the record ID, or a key derived from the first author
// and year when the record has none.
func citationKey(rec csl.Record) string {
	if rec.ID != "" {
		return rec.ID
	}
	key := "item"
	if len(rec.Author) > 0 {
		a := rec.Author[0]
		switch {
		case a.Parts["family"] != "":
			key = a.Parts["family"]
		case a.Literal != "":
			key = a.Literal
		}
	}
	if y := rec.Issued.Year(); y != 0 {
		key += fmt.Sprint(y)
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == ',' || r == '{' || r == '}' {
			return -1
		}
		return r
	}, key)
}

// formatNames formats names in BibTeX style: "Last, First and Last, First".
// Corporate and literal names are braced so BibTeX keeps them whole.
func formatNames(names []csl.Name) string {
	var formatted []string
	for _, n := range names {
		family, given := n.Parts["family"], n.Parts["given"]
		switch {
		case n.Kind == csl.Corporate:
			formatted = append(formatted, "{"+escapeLatex(n.Literal)+"}")
		case family != "" && given != "":
			formatted = append(formatted, fmt.Sprintf("%s, %s", escapeLatex(family), escapeLatex(given)))
		case family != "":
			formatted = append(formatted, escapeLatex(family))
		case n.Parts["literal"] != "":
			formatted = append(formatted, "{"+escapeLatex(n.Parts["literal"])+"}")
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
