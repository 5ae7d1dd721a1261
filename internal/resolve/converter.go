package resolve

import (
	"bytes"
	"io"

	"github.com/matsen/modscsl/internal/codetable"
	"github.com/matsen/modscsl/internal/csl"
	"github.com/matsen/modscsl/internal/mods"
	"go.uber.org/zap"
)

// Converter assembles CSL records from MODS documents. It holds only
// read-only settings, so one Converter may be shared across goroutines.
type Converter struct {
	tables      *codetable.Tables
	logger      *zap.Logger
	strictDates bool
	escape      bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithTables sets the vocabulary tables.
func WithTables(t *codetable.Tables) Option {
	return func(c *Converter) {
		if t != nil {
			c.tables = t
		}
	}
}

// WithLogger sets the logger used to report unparsable input.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrictDates emits malformed dates as raw text instead of coercing
// them to integers.
func WithStrictDates(strict bool) Option {
	return func(c *Converter) {
		c.strictDates = strict
	}
}

// WithEscaping HTML-escapes every string value of assembled records.
func WithEscaping(escape bool) Option {
	return func(c *Converter) {
		c.escape = escape
	}
}

// NewConverter creates a Converter using the built-in tables and no logging
// unless configured otherwise.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		tables: codetable.Default(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tables returns the vocabulary tables in use.
func (c *Converter) Tables() *codetable.Tables {
	return c.tables
}

// Convert parses a MODS document and assembles its citation record. Input
// that cannot be parsed yields an empty record; the failure is logged, never
// returned. source labels the input in log entries.
func (c *Converter) Convert(r io.Reader, source string) csl.Record {
	doc, err := mods.Parse(r)
	if err != nil {
		c.logger.Warn("could not parse MODS record",
			zap.String("source", source),
			zap.Error(err))
		return csl.Record{}
	}

	rec := mods.Bind(doc)
	if !rec.Binding().Bound() {
		c.logger.Debug("document is not in the MODS namespace",
			zap.String("source", source),
			zap.String("root", doc.RootName()),
			zap.String("namespace", doc.RootNamespace()))
	}
	return c.Assemble(rec)
}

// ConvertBytes is Convert for in-memory input.
func (c *Converter) ConvertBytes(data []byte, source string) csl.Record {
	return c.Convert(bytes.NewReader(data), source)
}

// Assemble resolves every CSL field of rec and merges them into one record.
// Fields that do not apply to the resolved type are removed.
func (c *Converter) Assemble(rec *mods.Record) csl.Record {
	typ, decidedBy := typeWithSource(rec, c.tables)
	c.logger.Debug("resolved type", zap.String("type", typ), zap.String("by", decidedBy))

	dates := ResolveDates(rec, DateOptions{Strict: c.strictDates})

	out := csl.Record{
		Type:            typ,
		Title:           text(Title(rec)),
		Abstract:        text(rec.First(pathAbstract)),
		CallNumber:      text(rec.First(pathCallNumber)),
		CollectionTitle: text(rec.First(pathCollectionTitle)),
		ContainerTitle:  text(rec.First(pathContainerTitle)),
		DOI:             text(rec.First(pathDOI)),
		Edition:         text(rec.First(pathEdition)),
		Event:           text(Event(rec)),
		EventPlace:      text(EventPlace(rec)),
		ISBN:            text(rec.First(pathISBN)),
		Issue:           integer(rec.First(pathIssue)),
		Note:            text(Note(rec)),
		Number:          text(rec.First(pathNumber)),
		Page:            text(Page(rec)),
		Publisher:       text(rec.First(pathPublisher)),
		PublisherPlace:  text(rec.First(pathPublisherPlace)),
		URL:             text(rec.First(pathURL)),
		Volume:          integer(rec.First(pathVolume)),
		NumberPMID:      text(rec.First(pathPMID)),
		NumberPMCID:     text(rec.First(pathPMCID)),
		NumberNIHMSID:   text(rec.First(pathNIHMSID)),
		Issued:          dates.Issued,
		Accessed:        dates.Accessed,
	}
	out = out.WithNames(Names(rec, c.tables)).Pruned()

	if c.escape {
		out = out.Escaped()
	}
	return out
}
