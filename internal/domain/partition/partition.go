// Package partition holds the table of well-known index paths.
package partition

import (
	"sort"
	"strings"
)

// Everything is the path of the partition listing every item.
const Everything = "/everything"

// maxNameLength bounds partition names taken from configuration.
const maxNameLength = 63

// Entry is a named subset of the index.
type Entry struct {
	Path  string
	Title string
	Class string
}

// Spec is the configured shape of a partition.
type Spec struct {
	Class string
	Title string
}

// Registry maps paths to partition entries. It is immutable once built and
// safe for concurrent reads.
type Registry struct {
	entries []Entry
	byPath  map[string]int
}

// NewRegistry builds the registry from named specs. The Everything entry is
// always present; a spec named "everything" may override its class or
// title. Names that are empty, contain '/' or exceed 62 characters are
// ignored.
func NewRegistry(specs map[string]Spec) *Registry {
	r := &Registry{byPath: make(map[string]int)}
	r.put(Entry{Path: Everything, Title: "Everything"})

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" || len(name) >= maxNameLength || strings.Contains(name, "/") {
			continue
		}
		spec := specs[name]
		path := "/" + name
		e := Entry{Path: path}
		if i, ok := r.byPath[path]; ok {
			e = r.entries[i]
		}
		if spec.Class != "" {
			e.Class = spec.Class
		}
		if spec.Title != "" {
			e.Title = spec.Title
		}
		r.put(e)
	}
	return r
}

func (r *Registry) put(e Entry) {
	if i, ok := r.byPath[e.Path]; ok {
		r.entries[i] = e
		return
	}
	r.byPath[e.Path] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Lookup returns the entry whose path equals path exactly.
func (r *Registry) Lookup(path string) (Entry, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns every entry, Everything first.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}
