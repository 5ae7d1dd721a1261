package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/modscsl/internal/codetable"
	"github.com/matsen/modscsl/internal/csl"
)

func personal(parts ...string) csl.Name {
	m := map[string]string{}
	for i := 0; i+1 < len(parts); i += 2 {
		m[parts[i]] = parts[i+1]
	}
	return csl.Name{Kind: csl.Personal, Parts: m}
}

func corporate(literal string) csl.Name {
	return csl.Name{Kind: csl.Corporate, Literal: literal}
}

func TestNames_RoleCascade(t *testing.T) {
	tables := codetable.Default()

	tests := []struct {
		name string
		body string
		want csl.NameGroup
	}{
		{
			name: "primary without role is author",
			body: `<name type="personal"><namePart type="family">Smith</namePart></name>`,
			want: csl.NameGroup{csl.RoleAuthor: {personal("family", "Smith")}},
		},
		{
			name: "series without role is dropped",
			body: `<relatedItem type="series"><name type="personal"><namePart type="family">Smith</namePart></name></relatedItem>`,
			want: csl.NameGroup{},
		},
		{
			name: "series editor is collection editor",
			body: `<relatedItem type="series"><name type="personal"><namePart type="family">Smith</namePart>` +
				`<role><roleTerm type="text">editor</roleTerm></role></name></relatedItem>`,
			want: csl.NameGroup{csl.RoleCollectionEditor: {personal("family", "Smith")}},
		},
		{
			name: "host without role is container author",
			body: `<relatedItem type="host"><name type="personal"><namePart type="family">Smith</namePart></name></relatedItem>`,
			want: csl.NameGroup{csl.RoleContainerAuthor: {personal("family", "Smith")}},
		},
		{
			name: "host author maps to container author",
			body: `<relatedItem type="host"><name type="personal"><namePart type="family">Smith</namePart>` +
				`<role><roleTerm>Author</roleTerm></role></name></relatedItem>`,
			want: csl.NameGroup{csl.RoleContainerAuthor: {personal("family", "Smith")}},
		},
		{
			name: "declared unaccepted role is dropped, not defaulted",
			body: `<name type="personal"><namePart type="family">Smith</namePart>` +
				`<role><roleTerm type="text">illustrator</roleTerm></role></name>`,
			want: csl.NameGroup{},
		},
		{
			name: "empty role element is dropped",
			body: `<name type="personal"><namePart type="family">Smith</namePart><role/></name>`,
			want: csl.NameGroup{},
		},
		{
			name: "relator code translated",
			body: `<name type="personal"><namePart type="family">Smith</namePart>` +
				`<role><roleTerm authority="marcrelator" type="code">edt</roleTerm></role></name>`,
			want: csl.NameGroup{csl.RoleEditor: {personal("family", "Smith")}},
		},
		{
			name: "relator code without code type is not translated",
			body: `<name type="personal"><namePart type="family">Smith</namePart>` +
				`<role><roleTerm authority="marcrelator" type="text">edt</roleTerm></role></name>`,
			want: csl.NameGroup{},
		},
		{
			name: "any accepted term of a role wins",
			body: `<name type="personal"><namePart type="family">Smith</namePart>` +
				`<role><roleTerm type="text">Herausgeber</roleTerm>` +
				`<roleTerm authority="marcrelator" type="code">trl</roleTerm></role></name>`,
			want: csl.NameGroup{csl.RoleTranslator: {personal("family", "Smith")}},
		},
		{
			name: "original maps to original author",
			body: `<name type="personal"><namePart type="family">Homer</namePart>` +
				`<role><roleTerm>original</roleTerm></role></name>`,
			want: csl.NameGroup{csl.RoleOriginalAuthor: {personal("family", "Homer")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Names(bindXML(t, modsDoc(tt.body)), tables)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNames_Shaping(t *testing.T) {
	tables := codetable.Default()

	tests := []struct {
		name string
		body string
		want []csl.Name
	}{
		{
			name: "initials get periods",
			body: `<name type="personal"><namePart type="given">J</namePart><namePart type="given">R</namePart>` +
				`<namePart type="given">R</namePart><namePart type="family">Tolkien</namePart></name>`,
			want: []csl.Name{personal("given", "J. R. R.", "family", "Tolkien")},
		},
		{
			name: "repeated parts joined with a space",
			body: `<name type="personal"><namePart type="given">Mary</namePart><namePart type="given">Ann</namePart>` +
				`<namePart type="family">Evans</namePart></name>`,
			want: []csl.Name{personal("given", "Mary Ann", "family", "Evans")},
		},
		{
			name: "whitespace trimmed",
			body: `<name type="personal"><namePart type="given">  Ada
				</namePart><namePart type="family"> Lovelace </namePart></name>`,
			want: []csl.Name{personal("given", "Ada", "family", "Lovelace")},
		},
		{
			name: "other typed parts kept",
			body: `<name type="personal"><namePart type="family">King</namePart>` +
				`<namePart type="termsOfAddress">Jr.</namePart><namePart type="date">1929-1968</namePart></name>`,
			want: []csl.Name{personal("family", "King", "termsOfAddress", "Jr.", "date", "1929-1968")},
		},
		{
			name: "untyped personal parts become literal",
			body: `<name type="personal"><namePart>Smith, John</namePart></name>`,
			want: []csl.Name{personal("literal", "Smith, John")},
		},
		{
			name: "untyped parts ignored next to typed ones",
			body: `<name type="personal"><namePart type="family">Smith</namePart><namePart>stray</namePart></name>`,
			want: []csl.Name{personal("family", "Smith")},
		},
		{
			name: "corporate parts joined",
			body: `<name type="corporate"><namePart>Royal Society</namePart><namePart>Council</namePart></name>`,
			want: []csl.Name{corporate("Royal Society Council")},
		},
		{
			name: "missing type is corporate",
			body: `<name><namePart type="family">Consortium</namePart></name>`,
			want: []csl.Name{corporate("Consortium")},
		},
		{
			name: "names without parts are dropped",
			body: `<name type="personal"/><name type="corporate"><namePart> </namePart></name>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Names(bindXML(t, modsDoc(tt.body)), tables)[csl.RoleAuthor]
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNames_OrderAcrossContexts(t *testing.T) {
	body := `<relatedItem type="series"><name type="corporate"><namePart>S1</namePart>` +
		`<role><roleTerm>editor</roleTerm></role></name></relatedItem>` +
		`<relatedItem type="host"><name type="corporate"><namePart>H1</namePart>` +
		`<role><roleTerm>editor</roleTerm></role></name></relatedItem>` +
		`<name type="corporate"><namePart>P1</namePart><role><roleTerm>editor</roleTerm></role></name>` +
		`<name type="corporate"><namePart>P2</namePart><role><roleTerm>editor</roleTerm></role></name>`

	got := Names(bindXML(t, modsDoc(body)), codetable.Default())

	want := csl.NameGroup{
		// primary context first, then host; series editors are a separate role
		csl.RoleEditor:           {corporate("P1"), corporate("P2"), corporate("H1")},
		csl.RoleCollectionEditor: {corporate("S1")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
