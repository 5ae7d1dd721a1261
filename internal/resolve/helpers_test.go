package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/modscsl/internal/mods"
)

// modsDoc wraps body in a default-namespace MODS root element.
func modsDoc(body string) string {
	return `<mods xmlns="http://www.loc.gov/mods/v3">` + body + `</mods>`
}

func bindXML(t *testing.T, xml string) *mods.Record {
	t.Helper()
	doc, err := mods.ParseString(xml)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return mods.Bind(doc)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return data
}
