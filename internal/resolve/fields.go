package resolve

import (
	"fmt"
	"html"
	"strings"

	"github.com/matsen/modscsl/internal/mods"
	"github.com/microcosm-cc/bluemonday"
)

// Single-value fields.
const (
	pathAbstract        = "/mods:mods/mods:abstract"
	pathCallNumber      = "/mods:mods/mods:classification"
	pathCollectionTitle = `/mods:mods/mods:relatedItem[@type="series"]/mods:titleInfo[not(@type)]/mods:title`
	pathContainerTitle  = `/mods:mods/mods:relatedItem[@type="host"]/mods:titleInfo[not(@type)]/mods:title`
	pathDOI             = `/mods:mods/mods:identifier[@type="doi"]`
	pathEdition         = "/mods:mods/mods:originInfo/mods:edition"
	pathISBN            = `/mods:mods/mods:identifier[@type="isbn"]`
	pathVolume          = `/mods:mods/mods:part/mods:detail[@type="volume"]/mods:number`
	pathIssue           = `/mods:mods/mods:part/mods:detail[@type="issue"]/mods:number`
	pathNumber          = `/mods:mods/mods:relatedItem[@type="series"]/mods:titleInfo/mods:partNumber`
	pathPublisher       = "/mods:mods/mods:originInfo/mods:publisher"
	pathPublisherPlace  = "/mods:mods/mods:originInfo/mods:place/mods:placeTerm"
	pathURL             = "/mods:mods/mods:location/mods:url"
	pathPMID            = `/mods:mods/mods:identifier[@type="accession"]`
	pathPMCID           = `/mods:mods/mods:identifier[@type="pmc"]`
	pathNIHMSID         = `/mods:mods/mods:identifier[@type="mid"]`
)

// Conference details, marcgt first, then the Zotero local genre.
const (
	pathMarcgtEvent      = `/mods:mods[mods:genre[@authority="marcgt"][text()="conference publication"]]/mods:relatedItem/mods:titleInfo/mods:title`
	pathLocalEvent       = `/mods:mods[mods:genre[@authority="local"][text()="conferencePaper"]]/mods:relatedItem/mods:titleInfo/mods:title`
	pathMarcgtEventPlace = `/mods:mods[mods:genre[@authority="marcgt"][text()="conference publication"]]/mods:originInfo/mods:place/mods:placeTerm`
	pathLocalEventPlace  = `/mods:mods[mods:genre[@authority="local"][text()="conferencePaper"]]/mods:originInfo/mods:place/mods:placeTerm`
)

const (
	pathNote        = "/mods:mods/mods:note"
	pathPagesExtent = `/mods:mods/mods:part/mods:extent[@unit="pages"]`
	pathPageExtent  = `/mods:mods/mods:part/mods:extent[@unit="page"]`
	pathExtentTotal = "mods:total"
	pathExtentList  = "mods:list"
	pathExtentStart = "mods:start"
	pathExtentEnd   = "mods:end"
)

// markupPolicy strips every tag. Policies are safe for concurrent use.
var markupPolicy = bluemonday.StrictPolicy()

// Event returns the conference name of a conference paper.
func Event(rec *mods.Record) (string, bool) {
	return firstOf(rec, query(pathMarcgtEvent), query(pathLocalEvent))
}

// EventPlace returns the conference location of a conference paper.
func EventPlace(rec *mods.Record) (string, bool) {
	return firstOf(rec, query(pathMarcgtEventPlace), query(pathLocalEventPlace))
}

// Page returns the page extent. unit="pages" is the MODS spelling; Zotero
// writes unit="page". Within an extent a total wins over a list, which wins
// over a start-end range.
func Page(rec *mods.Record) (string, bool) {
	return firstOf(rec, extentPages(pathPagesExtent), extentPages(pathPageExtent))
}

func extentPages(path string) strategy[*mods.Record, string] {
	return func(rec *mods.Record) (string, bool) {
		extents := rec.All(path)
		if len(extents) == 0 {
			return "", false
		}
		return firstOf(extents[0], child(pathExtentTotal), child(pathExtentList), strategy[mods.Element, string](pageRange))
	}
}

func pageRange(extent mods.Element) (string, bool) {
	start, ok := extent.First(pathExtentStart)
	if !ok {
		return "", false
	}
	if end, ok := extent.First(pathExtentEnd); ok {
		return start + "-" + end, true
	}
	return start, true
}

// Note numbers every note of the record and joins them: "1. First.  2. Second.  ".
// Markup embedded in note text is removed.
func Note(rec *mods.Record) (string, bool) {
	var b strings.Builder
	for i, n := range rec.All(pathNote) {
		t := strings.TrimRight(stripMarkup(n.Text()), ". ")
		fmt.Fprintf(&b, "%d. %s.  ", i+1, t)
	}
	return b.String(), b.Len() > 0
}

func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(markupPolicy.Sanitize(s)))
}
