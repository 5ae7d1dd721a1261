// Package csl defines the normalized citation record handed to a CSL
// citation processor.
package csl

import "reflect"

// CSL item types produced directly by the resolver. Other types come from
// the code tables.
const (
	TypeArticleJournal  = "article-journal"
	TypeBook            = "book"
	TypeChapter         = "chapter"
	TypePaperConference = "paper-conference"
	TypeThesis          = "thesis"

	// DefaultType is used when nothing in the source classifies the item.
	DefaultType = TypeArticleJournal
)

// Record is one citation item. Zero-valued fields are absent and are omitted
// when encoded.
type Record struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`

	Title           string `json:"title,omitempty"`
	Abstract        string `json:"abstract,omitempty"`
	CallNumber      string `json:"call-number,omitempty"`
	CollectionTitle string `json:"collection-title,omitempty"`
	ContainerTitle  string `json:"container-title,omitempty"`
	DOI             string `json:"DOI,omitempty"`
	Edition         string `json:"edition,omitempty"`
	Event           string `json:"event,omitempty"`
	EventPlace      string `json:"event-place,omitempty"`
	ISBN            string `json:"ISBN,omitempty"`
	Issue           int    `json:"issue,omitempty"`
	Note            string `json:"note,omitempty"`
	Number          string `json:"number,omitempty"`
	Page            string `json:"page,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PublisherPlace  string `json:"publisher-place,omitempty"`
	URL             string `json:"URL,omitempty"`
	Volume          int    `json:"volume,omitempty"`

	// Accession numbers
	NumberPMID    string `json:"number-pmid,omitempty"`
	NumberPMCID   string `json:"number-pmcid,omitempty"`
	NumberNIHMSID string `json:"number-nihmsid,omitempty"`

	Issued   *Date `json:"issued,omitempty"`
	Accessed *Date `json:"accessed,omitempty"`

	Author           []Name `json:"author,omitempty"`
	Editor           []Name `json:"editor,omitempty"`
	Translator       []Name `json:"translator,omitempty"`
	Interviewer      []Name `json:"interviewer,omitempty"`
	Composer         []Name `json:"composer,omitempty"`
	OriginalAuthor   []Name `json:"original-author,omitempty"`
	Recipient        []Name `json:"recipient,omitempty"`
	ContainerAuthor  []Name `json:"container-author,omitempty"`
	CollectionEditor []Name `json:"collection-editor,omitempty"`
}

// IsEmpty reports whether r carries no citation data. The ID is ignored.
func (r Record) IsEmpty() bool {
	r.ID = ""
	return reflect.ValueOf(r).IsZero()
}

// Pruned returns r without the fields that cannot apply to its type. A book
// is not contained in anything, so it has no container title, page range or
// container publisher place.
func (r Record) Pruned() Record {
	if r.Type == TypeBook {
		r.ContainerTitle = ""
		r.Page = ""
		r.PublisherPlace = ""
	}
	return r
}
