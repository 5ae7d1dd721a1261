package csl

import (
	"encoding/json"
	"fmt"
)

// Name roles. Each is also the JSON key of the matching Record field.
const (
	RoleAuthor           = "author"
	RoleEditor           = "editor"
	RoleTranslator       = "translator"
	RoleInterviewer      = "interviewer"
	RoleComposer         = "composer"
	RoleOriginalAuthor   = "original-author"
	RoleRecipient        = "recipient"
	RoleContainerAuthor  = "container-author"
	RoleCollectionEditor = "collection-editor"
)

// Roles lists every name role in the order they are encoded.
var Roles = []string{
	RoleAuthor,
	RoleEditor,
	RoleTranslator,
	RoleInterviewer,
	RoleComposer,
	RoleOriginalAuthor,
	RoleRecipient,
	RoleContainerAuthor,
	RoleCollectionEditor,
}

// NameKind distinguishes personal names from corporate ones.
type NameKind int

const (
	Personal NameKind = iota
	Corporate
)

// Name is one contributor. A personal name carries typed parts (given,
// family, ...) and is always flagged for name parsing by the processor; a
// corporate name is a single literal.
type Name struct {
	Kind    NameKind
	Parts   map[string]string
	Literal string
}

// NameGroup maps a role to its names in source order.
type NameGroup map[string][]Name

// parseNamesKey is the citeproc-js flag asking the processor to split
// particles and suffixes out of personal names itself.
const parseNamesKey = "parse-names"

// MarshalJSON flattens the name into a CSL name object.
func (n Name) MarshalJSON() ([]byte, error) {
	if n.Kind == Corporate {
		return json.Marshal(map[string]string{"literal": n.Literal})
	}

	out := make(map[string]string, len(n.Parts)+1)
	for k, v := range n.Parts {
		out[k] = v
	}
	out[parseNamesKey] = "true"
	return json.Marshal(out)
}

// UnmarshalJSON reads a CSL name object. Objects carrying the parse-names
// flag are personal; the rest are corporate.
func (n *Name) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding name: %w", err)
	}

	if _, ok := raw[parseNamesKey]; !ok {
		*n = Name{Kind: Corporate, Literal: raw["literal"]}
		return nil
	}

	delete(raw, parseNamesKey)
	*n = Name{Kind: Personal, Parts: raw}
	return nil
}

// Names returns the record's names grouped by role. Roles without names are
// not present.
func (r Record) Names() NameGroup {
	group := NameGroup{}
	for _, role := range Roles {
		if names := *r.roleField(role); len(names) > 0 {
			group[role] = names
		}
	}
	return group
}

// WithNames returns a copy of r whose name fields are replaced by group.
// Roles outside the Roles vocabulary are ignored.
func (r Record) WithNames(group NameGroup) Record {
	for _, role := range Roles {
		*r.roleField(role) = group[role]
	}
	return r
}

func (r *Record) roleField(role string) *[]Name {
	switch role {
	case RoleAuthor:
		return &r.Author
	case RoleEditor:
		return &r.Editor
	case RoleTranslator:
		return &r.Translator
	case RoleInterviewer:
		return &r.Interviewer
	case RoleComposer:
		return &r.Composer
	case RoleOriginalAuthor:
		return &r.OriginalAuthor
	case RoleRecipient:
		return &r.Recipient
	case RoleContainerAuthor:
		return &r.ContainerAuthor
	case RoleCollectionEditor:
		return &r.CollectionEditor
	}
	panic("csl: unknown role " + role)
}
