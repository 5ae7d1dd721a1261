package csl

import "html"

// Escaped returns a copy of r with every string value HTML-escaped, for
// processors that insert field values into HTML verbatim.
func (r Record) Escaped() Record {
	e := html.EscapeString
	for _, s := range []*string{
		&r.ID, &r.Title, &r.Abstract, &r.CallNumber, &r.CollectionTitle,
		&r.ContainerTitle, &r.DOI, &r.Edition, &r.Event, &r.EventPlace,
		&r.ISBN, &r.Note, &r.Number, &r.Page, &r.Publisher, &r.PublisherPlace,
		&r.URL, &r.NumberPMID, &r.NumberPMCID, &r.NumberNIHMSID,
	} {
		*s = e(*s)
	}

	if r.Issued != nil && r.Issued.Raw != "" {
		d := *r.Issued
		d.Raw = e(d.Raw)
		r.Issued = &d
	}
	if r.Accessed != nil && r.Accessed.Raw != "" {
		d := *r.Accessed
		d.Raw = e(d.Raw)
		r.Accessed = &d
	}

	group := NameGroup{}
	for role, names := range r.Names() {
		escaped := make([]Name, len(names))
		for i, n := range names {
			escaped[i] = n.escaped()
		}
		group[role] = escaped
	}
	return r.WithNames(group)
}

func (n Name) escaped() Name {
	out := Name{Kind: n.Kind, Literal: html.EscapeString(n.Literal)}
	if n.Parts != nil {
		out.Parts = make(map[string]string, len(n.Parts))
		for k, v := range n.Parts {
			out.Parts[k] = html.EscapeString(v)
		}
	}
	return out
}
