// Package normalization canonicalizes free-form option strings into closed
// sets of values.
package normalization

import (
	"sort"
	"strings"
)

// Enum matches raw input against a closed set of string-backed values,
// ignoring case and surrounding whitespace.
type Enum[T ~string] struct {
	values map[string]T
	names  []string
}

// NewEnum returns an Enum accepting exactly values.
func NewEnum[T ~string](values ...T) *Enum[T] {
	e := &Enum[T]{values: make(map[string]T, len(values)), names: make([]string, 0, len(values))}
	for _, v := range values {
		key := clean(string(v))
		if _, dup := e.values[key]; dup {
			continue
		}
		e.values[key] = v
		e.names = append(e.names, key)
	}
	sort.Strings(e.names)
	return e
}

// Lookup returns the value raw names. The zero value and false are returned
// for unknown input.
func (e *Enum[T]) Lookup(raw string) (T, bool) {
	v, ok := e.values[clean(raw)]
	return v, ok
}

// Names lists the accepted spellings, sorted.
func (e *Enum[T]) Names() []string {
	return append([]string(nil), e.names...)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
