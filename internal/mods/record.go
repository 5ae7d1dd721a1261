// Package mods provides a read-only, namespace-aware view of a MODS
// bibliographic record.
package mods

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrNoDocumentElement is returned when the input parses but contains no
// element at all.
var ErrNoDocumentElement = errors.New("document has no root element")

// Document is a parsed but not yet bound XML document.
type Document struct {
	doc  *xmlquery.Node
	root *xmlquery.Node
}

// Parse reads an XML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	root := documentElement(doc)
	if root == nil {
		return nil, ErrNoDocumentElement
	}

	return &Document{doc: doc, root: root}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes is a convenience wrapper around Parse.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// RootName returns the local name of the document element.
func (d *Document) RootName() string {
	return d.root.Data
}

// RootNamespace returns the namespace URI of the document element, or "" if
// the element is not in any namespace.
func (d *Document) RootNamespace() string {
	return d.root.NamespaceURI
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// Record is a Document bound to a namespace. All queries against it resolve
// the "mods:" prefix through its Binding.
type Record struct {
	Element
}

// Bind inspects the document element and returns a Record whose queries
// resolve the "mods:" prefix correctly for that document. The result depends
// only on d.
func Bind(d *Document) *Record {
	return &Record{Element: Element{node: d.doc, binding: bindingFor(d.root)}}
}

// Binding returns the namespace binding used by r.
func (r *Record) Binding() Binding {
	return r.binding
}

// Element is a node of a bound record. The zero Element matches nothing.
type Element struct {
	node    *xmlquery.Node
	binding Binding
}

// All returns every element matching path, in document order. Relative
// paths are evaluated against e.
func (e Element) All(path string) []Element {
	if e.node == nil {
		return nil
	}
	expr, err := e.binding.Compile(path)
	if err != nil {
		return nil
	}

	nodes := xmlquery.QuerySelectorAll(e.node, expr)
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Element{node: n, binding: e.binding})
	}
	return out
}

// Exists reports whether path matches at least one node.
func (e Element) Exists(path string) bool {
	if e.node == nil {
		return false
	}
	expr, err := e.binding.Compile(path)
	if err != nil {
		return false
	}
	return xmlquery.QuerySelector(e.node, expr) != nil
}

// Text returns the element's text content with surrounding whitespace
// removed.
func (e Element) Text() string {
	if e.node == nil {
		return ""
	}
	return strings.TrimSpace(e.node.InnerText())
}

// Attr returns the value of the named attribute, or "".
func (e Element) Attr(name string) string {
	if e.node == nil {
		return ""
	}
	return e.node.SelectAttr(name)
}

// Name returns the element's local name.
func (e Element) Name() string {
	if e.node == nil {
		return ""
	}
	return e.node.Data
}
