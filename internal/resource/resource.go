// Package resource resolves entity identifiers to external image keys.
//
// Population datasets identify countries by ISO 3166-1 alpha-3 code while
// the flag images are named by alpha-2 code, so the default [Table] maps
// one to the other. Identifiers with no entry resolve to no resource.
package resource

import (
	"path"
	"strings"
)

// Table maps entity identifiers to resource keys.
type Table map[string]string

// Default returns a copy of the built-in ISO3 to ISO2 table.
func Default() Table {
	t := make(Table, len(iso3to2))
	for k, v := range iso3to2 {
		t[k] = v
	}
	return t
}

// With returns a copy of t with overrides applied. An empty override value
// removes the entry.
func (t Table) With(overrides map[string]string) Table {
	out := make(Table, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Key returns the resource key for id.
func (t Table) Key(id string) (string, bool) {
	key, ok := t[id]
	return key, ok && key != ""
}

// Path returns dir/<key>.svg with a lower-cased key, or "" when id has no
// entry.
func (t Table) Path(dir, id string) string {
	key, ok := t.Key(id)
	if !ok {
		return ""
	}
	return path.Join(dir, strings.ToLower(key)+".svg")
}
