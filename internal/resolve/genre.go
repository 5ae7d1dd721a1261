package resolve

import (
	"strings"

	"github.com/matsen/modscsl/internal/codetable"
	"github.com/matsen/modscsl/internal/csl"
	"github.com/matsen/modscsl/internal/mods"
)

const (
	pathGenre                 = "/mods:mods/mods:genre"
	pathMarcgtGenre           = `/mods:mods/mods:genre[@authority="marcgt"]`
	pathRelatedMarcgtGenre    = `/mods:mods/mods:relatedItem/mods:genre[@authority="marcgt"]`
	pathUnauthoritativeGenres = `/mods:mods/mods:genre[not(@authority="marcgt")]`
	pathHostTitle             = `/mods:mods/mods:relatedItem[@type="host"]/mods:titleInfo/mods:title`
)

// localAuthorities are genre authorities whose terms are looked up in the
// local table.
var localAuthorities = map[string]bool{
	"local":  true,
	"zotero": true,
}

// Type classifies the record into a CSL type. It never returns "".
//
// marcgt is the preferred authority, but local terms (mostly Zotero item
// types) are more precise where present, so they are tried first. "book" is
// ambiguous: a marcgt "book" on the record is a chapter when the record has a
// host with a title, and a marcgt "book" on a related item always means the
// record is part of that book.
func Type(rec *mods.Record, tables *codetable.Tables) string {
	t, _ := typeWithSource(rec, tables)
	return t
}

// typeWithSource is Type that also names the strategy that decided.
func typeWithSource(rec *mods.Record, tables *codetable.Tables) (string, string) {
	steps := []struct {
		name string
		fn   strategy[*mods.Record, string]
	}{
		{"local genre", localGenreType(tables)},
		{"marcgt genre", marcgtGenreType(tables)},
		{"related marcgt genre", relatedMarcgtGenreType(tables)},
		{"unauthoritative genre", unauthoritativeGenreType(tables)},
	}

	for _, s := range steps {
		if t, ok := s.fn(rec); ok {
			return t, s.name
		}
	}
	return csl.DefaultType, "default"
}

func localGenreType(tables *codetable.Tables) strategy[*mods.Record, string] {
	return func(rec *mods.Record) (string, bool) {
		for _, g := range rec.All(pathGenre) {
			if localAuthorities[strings.ToLower(g.Attr("authority"))] {
				t := tables.LocalType(g.Text())
				return t, t != ""
			}
		}
		return "", false
	}
}

func marcgtGenreType(tables *codetable.Tables) strategy[*mods.Record, string] {
	return func(rec *mods.Record) (string, bool) {
		genre, ok := rec.First(pathMarcgtGenre)
		if !ok {
			return "", false
		}
		// Only the literal term collapses; terms the table maps to book stay books.
		if strings.EqualFold(genre, "book") {
			if _, hasHost := rec.First(pathHostTitle); hasHost {
				return csl.TypeChapter, true
			}
			return csl.TypeBook, true
		}
		t := tables.MarcgtType(genre)
		return t, t != ""
	}
}

func relatedMarcgtGenreType(tables *codetable.Tables) strategy[*mods.Record, string] {
	return func(rec *mods.Record) (string, bool) {
		genre, ok := rec.First(pathRelatedMarcgtGenre)
		if !ok {
			return "", false
		}
		if strings.EqualFold(genre, "book") {
			return csl.TypeChapter, true
		}
		t := tables.MarcgtType(genre)
		return t, t != ""
	}
}

func unauthoritativeGenreType(tables *codetable.Tables) strategy[*mods.Record, string] {
	return func(rec *mods.Record) (string, bool) {
		for _, genre := range rec.Texts(pathUnauthoritativeGenres) {
			if t := tables.GuessType(genre); t != "" {
				return t, true
			}
		}
		return "", false
	}
}
