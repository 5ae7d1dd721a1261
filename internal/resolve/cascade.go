// Package resolve turns a bound MODS record into a CSL citation record.
//
// Each CSL field has several candidate sources in MODS. Resolvers express
// the preference order as an ordered list of strategies; the first strategy
// that produces a value wins.
package resolve

import (
	"math"
	"strconv"
	"strings"

	"github.com/matsen/modscsl/internal/mods"
)

// strategy produces a candidate value from src, or reports that it has none.
type strategy[S, T any] func(src S) (T, bool)

// firstOf evaluates strategies in order and returns the first value produced.
func firstOf[S, T any](src S, strategies ...strategy[S, T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(src); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// query is a strategy returning the first text matching path.
func query(path string) strategy[*mods.Record, string] {
	return func(rec *mods.Record) (string, bool) {
		return rec.First(path)
	}
}

// child is query for paths relative to an element.
func child(path string) strategy[mods.Element, string] {
	return func(el mods.Element) (string, bool) {
		return el.First(path)
	}
}

// text drops the presence flag of a resolver result.
func text(s string, _ bool) string {
	return s
}

// integer coerces a resolver result to an int; absent values are 0.
func integer(s string, ok bool) int {
	if !ok {
		return 0
	}
	n, _ := leadingInt(s)
	return n
}

// leadingInt reads an integer the lenient way: leading whitespace and an
// optional sign are skipped, then as many digits as are present are used.
// Input without digits yields 0. Values out of range saturate. The second
// result reports whether the whole string was a clean integer.
func leadingInt(s string) (int, bool) {
	trimmed := strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(trimmed) && (trimmed[end] == '+' || trimmed[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	clean := strings.TrimSpace(trimmed[end:]) == ""
	n, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		// Only a range error is possible here.
		if trimmed[0] == '-' {
			return math.MinInt, false
		}
		return math.MaxInt, false
	}
	return n, clean
}
