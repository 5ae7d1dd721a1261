// Package codetable holds the vocabulary tables used to classify MODS
// records: genre terms to CSL types and MARC relator codes to role terms.
package codetable

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Keyword is one entry of the heuristic genre table.
type Keyword struct {
	Match string `yaml:"match" json:"match"`
	Type  string `yaml:"type" json:"type"`
}

// Tables is an immutable set of lookup tables. Build one with Default, Parse
// or Merge; lookups never modify it.
type Tables struct {
	Marcgt   map[string]string `yaml:"marcgt" json:"marcgt"`
	Local    map[string]string `yaml:"local" json:"local"`
	Keywords []Keyword         `yaml:"keywords" json:"keywords"`
	Relators map[string]string `yaml:"relators" json:"relators"`
}

// Default returns a fresh copy of the built-in tables.
func Default() *Tables {
	t, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("codetable: built-in tables are invalid: %v", err))
	}
	return t
}

// Parse decodes tables from YAML and normalizes their keys.
func Parse(data []byte) (*Tables, error) {
	var raw Tables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing code tables: %w", err)
	}

	for i, k := range raw.Keywords {
		if normalize(k.Match) == "" || k.Type == "" {
			return nil, fmt.Errorf("keyword %d: both match and type are required", i+1)
		}
	}

	return &Tables{
		Marcgt:   normalizeKeys(raw.Marcgt),
		Local:    normalizeKeys(raw.Local),
		Keywords: raw.Keywords,
		Relators: normalizeKeys(raw.Relators),
	}, nil
}

// Load reads tables from a YAML file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading code tables: %w", err)
	}
	return Parse(data)
}

// Merge returns new tables in which entries from o override t. Keywords from
// o are tried before those of t.
func (t *Tables) Merge(o *Tables) *Tables {
	if o == nil {
		return t
	}

	keywords := make([]Keyword, 0, len(o.Keywords)+len(t.Keywords))
	keywords = append(keywords, o.Keywords...)
	keywords = append(keywords, t.Keywords...)

	return &Tables{
		Marcgt:   mergeMaps(t.Marcgt, o.Marcgt),
		Local:    mergeMaps(t.Local, o.Local),
		Keywords: keywords,
		Relators: mergeMaps(t.Relators, o.Relators),
	}
}

// MarcgtType maps a marcgt genre term to a CSL type, or "".
func (t *Tables) MarcgtType(genre string) string {
	return t.Marcgt[normalize(genre)]
}

// LocalType maps a local-authority genre to a CSL type, or "".
func (t *Tables) LocalType(genre string) string {
	return t.Local[normalize(genre)]
}

// GuessType maps an unauthoritative genre string to a CSL type using the
// keyword heuristics, or "".
func (t *Tables) GuessType(genre string) string {
	g := normalize(genre)
	if g == "" {
		return ""
	}

	for _, k := range t.Keywords {
		if normalize(k.Match) == g {
			return k.Type
		}
	}
	for _, k := range t.Keywords {
		if strings.Contains(g, normalize(k.Match)) {
			return k.Type
		}
	}
	return ""
}

// RelatorTerm translates a MARC relator code into its term. Unknown codes are
// returned unchanged.
func (t *Tables) RelatorTerm(code string) string {
	if term, ok := t.Relators[normalize(code)]; ok {
		return term
	}
	return code
}

// normalize folds case and drops spaces, hyphens and underscores.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '\t', '\n', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[normalize(k)] = strings.TrimSpace(v)
	}
	return out
}

func mergeMaps(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
