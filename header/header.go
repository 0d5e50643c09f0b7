// Package header is an ordered, case-insensitive header list.
//
// Unlike net/http.Header (a map keyed by canonical name), this preserves
// both the caller's original casing and insertion order, and keeps
// duplicate names as separate entries — the request/response model in this
// client requires both (spec: "Duplicates preserved", "names compared
// case-insensitively").
package header

import (
	"golang.org/x/text/cases"
)

// fold is used for every case-insensitive comparison of header names made
// by the List methods, rather than each method rolling its own ToLower
// loop. Code outside this package that compares a header name directly
// (reqmsg's reserved-name check) uses strings.EqualFold instead.
var fold = cases.Fold()

func equalFold(a, b string) bool {
	return fold.String(a) == fold.String(b)
}

// Field is a single (name, value) header entry.
type Field struct {
	Name  string
	Value string
}

// List is an ordered sequence of header fields.
type List []Field

// Add appends a field, preserving any existing entries with the same name.
func (l *List) Add(name, value string) {
	*l = append(*l, Field{Name: name, Value: value})
}

// Set removes every existing entry with the given name (case-insensitive)
// and appends a single new entry in its place.
func (l *List) Set(name, value string) {
	out := (*l)[:0]
	for _, f := range *l {
		if !equalFold(f.Name, name) {
			out = append(out, f)
		}
	}
	*l = append(out, Field{Name: name, Value: value})
}

// Del removes every entry with the given name (case-insensitive).
func (l *List) Del(name string) {
	out := (*l)[:0]
	for _, f := range *l {
		if !equalFold(f.Name, name) {
			out = append(out, f)
		}
	}
	*l = out
}

// Get returns the first value for name (case-insensitive) and whether it
// was present at all.
func (l List) Get(name string) (string, bool) {
	for _, f := range l {
		if equalFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether name is present (case-insensitive).
func (l List) Has(name string) bool {
	_, ok := l.Get(name)
	return ok
}

// Values returns every value for name, in order, case-insensitively.
func (l List) Values(name string) []string {
	var values []string
	for _, f := range l {
		if equalFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// HasValue reports whether name is present (case-insensitive name match)
// and its first value is exactly want — used for exact-value header checks
// like "Transfer-Encoding: chunked" or "Content-Encoding: gzip".
func (l List) HasValue(name, want string) bool {
	v, ok := l.Get(name)
	return ok && v == want
}

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}
