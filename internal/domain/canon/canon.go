// Package canon builds the canonical public URI of a request.
//
// A URI is assembled from the service root, path segments, an ordered list of
// query parameters, an optional file extension and an optional fragment. The
// same builder renders several forms of the URI: the abstract document, the
// parameterized resource, the concrete (extension-bearing) representation and
// the subject.
package canon

import (
	"net/url"
	"strconv"
	"strings"
)

// Form selects which parts of the URI String renders.
type Form uint8

// Form bits.
const (
	WithParams Form = 1 << iota
	WithExt
	WithFragment
)

// Named forms.
const (
	// Abstract is the document URI without parameters or extension.
	Abstract Form = 0
	// Resource is the page of results or the negotiated document.
	Resource = WithParams
	// Concrete is the specific representation served.
	Concrete = WithParams | WithExt
	// Subject is the thing the document describes.
	Subject = WithFragment
)

type param struct {
	name  string
	value string
	raw   bool
}

// URI is a mutable canonical URI builder. Clone before mutating a URI shared
// with other code.
type URI struct {
	base     string
	segments []string
	params   []param
	fragment string
	ext      string
}

// New creates a builder rooted at base.
func New(base string) *URI {
	return &URI{base: strings.TrimRight(base, "/")}
}

// Clone returns an independent copy.
func (u *URI) Clone() *URI {
	c := *u
	c.segments = append([]string(nil), u.segments...)
	c.params = append([]param(nil), u.params...)
	return &c
}

// Base returns the root the URI was created with.
func (u *URI) Base() string { return u.base }

// AddPath appends the non-empty segments of p.
func (u *URI) AddPath(p string) {
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			u.segments = append(u.segments, seg)
		}
	}
}

// Segments returns the path segments.
func (u *URI) Segments() []string {
	return append([]string(nil), u.segments...)
}

// SetFragment sets the fragment; an empty string clears it.
func (u *URI) SetFragment(f string) {
	u.fragment = strings.TrimPrefix(f, "#")
}

// Fragment returns the fragment without '#'.
func (u *URI) Fragment() string { return u.fragment }

// SetExt sets the file extension used by forms carrying WithExt.
func (u *URI) SetExt(ext string) {
	u.ext = strings.TrimPrefix(ext, ".")
}

// Ext returns the extension without '.'.
func (u *URI) Ext() string { return u.ext }

// SetParam replaces every value of name with value.
func (u *URI) SetParam(name, value string) {
	u.set(name, []string{value}, false)
}

// SetParamInt replaces every value of name with v.
func (u *URI) SetParamInt(name string, v int) {
	u.SetParam(name, strconv.Itoa(v))
}

// SetParamMulti replaces every value of name with values.
func (u *URI) SetParamMulti(name string, values []string) {
	u.set(name, values, false)
}

// AddParam appends name=value without escaping value. It is used for URI
// templates whose placeholders must survive verbatim.
func (u *URI) AddParam(name, value string) {
	u.params = append(u.params, param{name: name, value: value, raw: true})
}

// DelParam removes every value of name.
func (u *URI) DelParam(name string) {
	kept := u.params[:0]
	for _, p := range u.params {
		if p.name != name {
			kept = append(kept, p)
		}
	}
	u.params = kept
}

// ResetParams removes every parameter.
func (u *URI) ResetParams() { u.params = nil }

// Param returns the first value of name.
func (u *URI) Param(name string) (string, bool) {
	for _, p := range u.params {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

// set keeps the position of the first existing value so that re-setting a
// parameter does not reorder the query string.
func (u *URI) set(name string, values []string, raw bool) {
	at := -1
	kept := u.params[:0]
	for _, p := range u.params {
		if p.name == name {
			if at < 0 {
				at = len(kept)
			}
			continue
		}
		kept = append(kept, p)
	}
	fresh := make([]param, 0, len(values))
	for _, v := range values {
		fresh = append(fresh, param{name: name, value: v, raw: raw})
	}
	if at < 0 {
		u.params = append(kept, fresh...)
		return
	}
	out := make([]param, 0, len(kept)+len(fresh))
	out = append(out, kept[:at]...)
	out = append(out, fresh...)
	out = append(out, kept[at:]...)
	u.params = out
}

// String renders the URI in form f.
func (u *URI) String(f Form) string {
	var b strings.Builder
	b.WriteString(u.base)
	b.WriteByte('/')
	b.WriteString(strings.Join(u.segments, "/"))
	if f&WithExt != 0 && u.ext != "" {
		if len(u.segments) == 0 {
			b.WriteString("index")
		}
		b.WriteByte('.')
		b.WriteString(u.ext)
	}
	if f&WithParams != 0 && len(u.params) > 0 {
		for i, p := range u.params {
			if i == 0 {
				b.WriteByte('?')
			} else {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(p.name))
			b.WriteByte('=')
			if p.raw {
				b.WriteString(p.value)
			} else {
				b.WriteString(url.QueryEscape(p.value))
			}
		}
	}
	if f&WithFragment != 0 && u.fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}
