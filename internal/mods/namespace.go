package mods

import (
	"errors"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const (
	// Namespace is the MODS v3 namespace URI.
	Namespace = "http://www.loc.gov/mods/v3"

	// Prefix is the alias used in every query path.
	Prefix = "mods"
)

// ErrUnbound is returned by Compile when the binding cannot resolve the
// "mods:" prefix for its document.
var ErrUnbound = errors.New("record is not bound to the MODS namespace")

type bindMode int

const (
	modeUnbound bindMode = iota
	modeNamespaced
	modeBare
)

// Binding says how the "mods:" prefix in a query path maps onto a specific
// document. It is a plain value: each record carries its own, and nothing
// is shared between records.
type Binding struct {
	mode bindMode
	uri  string
}

// bindingFor picks the binding from the namespace of the document element.
// A MODS root (default or aliased) binds the prefix to the MODS URI; a root
// without any namespace binds to un-namespaced elements; anything else is
// left unbound.
func bindingFor(root *xmlquery.Node) Binding {
	switch root.NamespaceURI {
	case Namespace:
		return Binding{mode: modeNamespaced, uri: Namespace}
	case "":
		return Binding{mode: modeBare}
	default:
		return Binding{}
	}
}

// NamespaceURI returns the URI the prefix is bound to, or "" when the binding
// targets un-namespaced elements or is unbound.
func (b Binding) NamespaceURI() string {
	return b.uri
}

// Bound reports whether queries through b can match anything.
func (b Binding) Bound() bool {
	return b.mode != modeUnbound
}

// Compile compiles a query path written with the "mods:" prefix.
func (b Binding) Compile(path string) (*xpath.Expr, error) {
	switch b.mode {
	case modeNamespaced:
		return xpath.CompileWithNS(path, map[string]string{Prefix: b.uri})
	case modeBare:
		return xpath.Compile(strings.ReplaceAll(path, Prefix+":", ""))
	default:
		return nil, ErrUnbound
	}
}
