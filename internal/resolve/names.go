package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/matsen/modscsl/internal/codetable"
	"github.com/matsen/modscsl/internal/csl"
	"github.com/matsen/modscsl/internal/mods"
)

// nameContext is one place names are found in a MODS record, with the roles
// accepted there. Role terms are matched lowercase.
type nameContext struct {
	path        string
	defaultRole string // "" drops names that declare no role
	roles       map[string]string
}

// nameContexts are processed in order; names keep document order within
// each context.
var nameContexts = []nameContext{
	{
		path:        "/mods:mods/mods:name",
		defaultRole: csl.RoleAuthor,
		roles: map[string]string{
			"editor":      csl.RoleEditor,
			"translator":  csl.RoleTranslator,
			"interviewer": csl.RoleInterviewer,
			"composer":    csl.RoleComposer,
			"original":    csl.RoleOriginalAuthor,
			"recipient":   csl.RoleRecipient,
			"author":      csl.RoleAuthor,
		},
	},
	{
		// Bibutils puts the editors of the book a chapter appears in here.
		path:        `/mods:mods/mods:relatedItem[@type="host"]/mods:name`,
		defaultRole: csl.RoleContainerAuthor,
		roles: map[string]string{
			"editor":     csl.RoleEditor,
			"translator": csl.RoleTranslator,
			"author":     csl.RoleContainerAuthor,
		},
	},
	{
		path: `/mods:mods/mods:relatedItem[@type="series"]/mods:name`,
		roles: map[string]string{
			"editor": csl.RoleCollectionEditor,
		},
	},
}

// Names extracts contributor names grouped by CSL role.
//
// A name with no role element takes its context's default role, or is
// dropped when the context has none. A name whose role element yields no
// accepted term is dropped rather than defaulted.
func Names(rec *mods.Record, tables *codetable.Tables) csl.NameGroup {
	group := csl.NameGroup{}
	for _, nc := range nameContexts {
		for _, el := range rec.All(nc.path) {
			role, ok := nc.role(el, tables)
			if !ok {
				continue
			}
			name, ok := shapeName(el)
			if !ok {
				continue
			}
			group[role] = append(group[role], name)
		}
	}
	return group
}

// role resolves the CSL role of a name element. Every roleTerm is tried in
// document order, so a role given both as text and as a relator code
// resolves through whichever form is accepted.
func (nc nameContext) role(el mods.Element, tables *codetable.Tables) (string, bool) {
	if !el.Exists("mods:role") {
		return nc.defaultRole, nc.defaultRole != ""
	}

	for _, term := range el.All("mods:role/mods:roleTerm") {
		if role, ok := nc.roles[roleTerm(term, tables)]; ok {
			return role, true
		}
	}
	return "", false
}

func roleTerm(term mods.Element, tables *codetable.Tables) string {
	t := strings.ToLower(term.Text())
	if strings.EqualFold(term.Attr("authority"), "marcrelator") && strings.EqualFold(term.Attr("type"), "code") {
		t = strings.ToLower(tables.RelatorTerm(t))
	}
	return t
}

func shapeName(el mods.Element) (csl.Name, bool) {
	parts := el.All("mods:namePart")
	if el.Attr("type") == "personal" {
		return personalName(parts)
	}
	return corporateName(parts)
}

// personalName keys name parts by their type. Repeated parts of one type are
// joined, and single letters are treated as initials ("J" becomes "J.").
// Untyped parts are only used, as a literal, when nothing is typed.
func personalName(parts []mods.Element) (csl.Name, bool) {
	fields := map[string]string{}
	var untyped string

	for _, p := range parts {
		content := p.Text()
		if content == "" {
			continue
		}
		if utf8.RuneCountInString(content) == 1 {
			content += ". "
		} else {
			content += " "
		}

		if key := p.Attr("type"); key != "" {
			fields[key] += content
		} else {
			untyped += content
		}
	}

	for k, v := range fields {
		fields[k] = strings.TrimSpace(v)
	}
	if len(fields) == 0 {
		untyped = strings.TrimSpace(untyped)
		if untyped == "" {
			return csl.Name{}, false
		}
		fields["literal"] = untyped
	}

	return csl.Name{Kind: csl.Personal, Parts: fields}, true
}

func corporateName(parts []mods.Element) (csl.Name, bool) {
	var words []string
	for _, p := range parts {
		if t := p.Text(); t != "" {
			words = append(words, t)
		}
	}
	if len(words) == 0 {
		return csl.Name{}, false
	}
	return csl.Name{Kind: csl.Corporate, Literal: strings.Join(words, " ")}, true
}
