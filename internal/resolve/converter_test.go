package resolve

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/modscsl/internal/csl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConvert_Chapter(t *testing.T) {
	got := NewConverter().ConvertBytes(readFixture(t, "chapter.xml"), "chapter.xml")

	want := csl.Record{
		Type:            csl.TypeChapter,
		Title:           "The Structure of Phylogenetic Trees: A Survey",
		Abstract:        "We survey trees.",
		CallNumber:      "QH83",
		CollectionTitle: "Lecture Notes in Trees",
		ContainerTitle:  "Handbook of Trees",
		DOI:             "10.1000/trees",
		Edition:         "2nd",
		ISBN:            "978-0-00-000000-0",
		Issue:           2,
		Note:            "1. First note.  2. Second note.  ",
		Number:          "42",
		Page:            "101-123",
		Publisher:       "Academic Press",
		PublisherPlace:  "London",
		URL:             "https://example.org/trees",
		Volume:          7,
		NumberPMID:      "31234567",
		Issued:          &csl.Date{Parts: [][]int{{2019, 6}}},
		Accessed:        &csl.Date{Parts: [][]int{{2021, 2, 3}}},
		Author: []csl.Name{
			personal("given", "Frederick A.", "family", "Matsen"),
			personal("given", "J. R.", "family", "Tolkien"),
		},
		Translator:       []csl.Name{personal("given", "Ada", "family", "Lovelace")},
		Editor:           []csl.Name{personal("given", "Grace", "family", "Hopper")},
		ContainerAuthor:  []csl.Name{corporate("Tree Society Publications Board")},
		CollectionEditor: []csl.Name{personal("family", "Series", "given", "Ed")},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_BookIsPruned(t *testing.T) {
	got := NewConverter().ConvertBytes(readFixture(t, "book.xml"), "book.xml")

	want := csl.Record{
		Type:      csl.TypeBook,
		Title:     "Collected Essays",
		Publisher: "Sage",
		Issued:    &csl.Date{Parts: [][]int{{1998}}, Season: "3"},
		Author:    []csl.Name{corporate("University Press Collective")},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_MappedBookDropsHostTitle(t *testing.T) {
	// Only the literal marcgt term "book" turns into a chapter; other terms
	// mapping to book stay books and lose their host title.
	got := NewConverter().ConvertBytes([]byte(modsDoc(
		`<titleInfo><title>A Life</title></titleInfo>`+
			`<genre authority="marcgt">biography</genre>`+
			`<relatedItem type="host"><titleInfo><title>Lives</title></titleInfo></relatedItem>`)), "life.xml")

	want := csl.Record{Type: csl.TypeBook, Title: "A Life"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_ConferenceWithoutNamespace(t *testing.T) {
	got := NewConverter().ConvertBytes(readFixture(t, "conference.xml"), "conference.xml")

	want := csl.Record{
		Type:           csl.TypePaperConference,
		Title:          "Fast Trees",
		ContainerTitle: "Proceedings of TreeConf",
		Event:          "Proceedings of TreeConf",
		EventPlace:     "Banff",
		Page:           "5",
		PublisherPlace: "Banff",
		Issued:         &csl.Date{Parts: [][]int{{2010, 11, 5}}},
		Author:         []csl.Name{personal("given", "Alan", "family", "Turing")},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_ForeignNamespaceIsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewConverter(WithLogger(zap.New(core)))

	got := c.Convert(strings.NewReader(`<mods xmlns="urn:other"><titleInfo><title>x</title></titleInfo></mods>`), "other.xml")

	// Only the fallback type survives when nothing can be queried.
	if diff := cmp.Diff(csl.Record{Type: csl.DefaultType}, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
	entries := logs.FilterMessage("document is not in the MODS namespace").All()
	if len(entries) != 1 {
		t.Fatalf("got %d namespace log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["root"] != "mods" || fields["namespace"] != "urn:other" {
		t.Errorf("namespace log fields = %v, want root mods in urn:other", fields)
	}
}

func TestConvert_ParseFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := NewConverter(WithLogger(zap.New(core)))

	got := c.Convert(strings.NewReader("<mods><title></mods>"), "broken.xml")

	if !got.IsEmpty() {
		t.Errorf("Convert() = %+v, want empty record", got)
	}
	entries := logs.FilterMessage("could not parse MODS record").All()
	if len(entries) != 1 {
		t.Fatalf("got %d warnings, want 1", len(entries))
	}
	if src := entries[0].ContextMap()["source"]; src != "broken.xml" {
		t.Errorf("warning source = %v, want broken.xml", src)
	}
}

func TestConvert_NilLoggerIgnored(t *testing.T) {
	c := NewConverter(WithLogger(nil))
	// Must not panic on the nil logger.
	if got := c.Convert(strings.NewReader(""), "empty"); !got.IsEmpty() {
		t.Errorf("Convert() = %+v, want empty record", got)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	c := NewConverter()
	data := readFixture(t, "chapter.xml")

	first, err := json.Marshal(c.ConvertBytes(data, "a"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(c.ConvertBytes(data, "a"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("conversion %d differs:\n%s\n%s", i, first, again)
		}
	}
}

// Documents with different namespace styles converted at once must not
// influence each other.
func TestConvert_ConcurrentMixedNamespaces(t *testing.T) {
	c := NewConverter()
	fixtures := []string{"chapter.xml", "book.xml", "conference.xml"}

	inputs := make(map[string][]byte)
	want := make(map[string]csl.Record)
	for _, f := range fixtures {
		inputs[f] = readFixture(t, f)
		want[f] = c.ConvertBytes(inputs[f], f)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 60)
	for i := 0; i < 60; i++ {
		f := fixtures[i%len(fixtures)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := c.ConvertBytes(inputs[f], f)
			if diff := cmp.Diff(want[f], got); diff != "" {
				errs <- f + ":\n" + diff
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Errorf("concurrent Convert() mismatch for %s", e)
	}
}

func TestConvert_Escaping(t *testing.T) {
	doc := modsDoc(`<titleInfo><title>Tom &amp; "Jerry"</title></titleInfo>` +
		`<name type="corporate"><namePart>O'Reilly</namePart></name>`)

	plain := NewConverter().ConvertBytes([]byte(doc), "x")
	if plain.Title != `Tom & "Jerry"` {
		t.Errorf("Title = %q, want unescaped", plain.Title)
	}

	escaped := NewConverter(WithEscaping(true)).ConvertBytes([]byte(doc), "x")
	if want := "Tom &amp; &#34;Jerry&#34;"; escaped.Title != want {
		t.Errorf("Title = %q, want %q", escaped.Title, want)
	}
	if want := "O&#39;Reilly"; escaped.Author[0].Literal != want {
		t.Errorf("author literal = %q, want %q", escaped.Author[0].Literal, want)
	}
}

func TestConvert_StrictDates(t *testing.T) {
	doc := []byte(modsDoc(`<originInfo><dateIssued>n.d.</dateIssued></originInfo>`))

	if got := NewConverter().ConvertBytes(doc, "x").Issued; got == nil || got.Year() != 0 || got.Raw != "" {
		t.Errorf("legacy Issued = %+v, want coerced [[0]]", got)
	}
	if got := NewConverter(WithStrictDates(true)).ConvertBytes(doc, "x").Issued; got == nil || got.Raw != "n.d." {
		t.Errorf("strict Issued = %+v, want raw n.d.", got)
	}
}
