// Package request holds the per-request state a resolver works on: the
// parsed URL, the canonical URI builder and the statement model the result
// is assembled in.
package request

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bbcarchdev/patchwork/internal/domain/canon"
	"github.com/bbcarchdev/patchwork/internal/graph"
)

// Options describes an incoming request.
type Options struct {
	// Root is the public base URI of the service.
	Root string
	// Path is the request path with any extension removed.
	Path  string
	Query url.Values
	// Type is the negotiated media type of the response.
	Type string
	// Ext is the file extension of that media type.
	Ext string
	// ExplicitExt is set when the client asked for Ext in the URL.
	ExplicitExt  bool
	DefaultLimit int
	MaxLimit     int
}

// Request is the state of one request. It is owned by a single goroutine.
type Request struct {
	Root      string
	Path      string
	Params    url.Values
	Canonical *canon.URI
	Model     *graph.Model
	// Graph is the URI of the concrete document context.
	Graph        string
	Type         string
	Ext          string
	ExplicitExt  bool
	Home         bool
	Index        bool
	IndexTitle   string
	Offset       int
	Limit        int
	DefaultLimit int
	// Location is the redirect target set by a lookup.
	Location string

	subject  string
	consumed int
}

// New builds a request from o. Limit falls back to DefaultLimit and is
// capped at MaxLimit; a negative offset is treated as zero.
func New(o Options) *Request {
	root := strings.TrimRight(o.Root, "/")
	path := "/" + strings.Trim(o.Path, "/")
	params := o.Query
	if params == nil {
		params = url.Values{}
	}

	r := &Request{
		Root:         root,
		Path:         path,
		Params:       params,
		Canonical:    canon.New(root),
		Model:        graph.NewModel(),
		Type:         o.Type,
		Ext:          o.Ext,
		ExplicitExt:  o.ExplicitExt,
		Home:         path == "/",
		DefaultLimit: o.DefaultLimit,
	}
	r.Canonical.SetExt(o.Ext)

	r.Graph = root + path
	if o.ExplicitExt && o.Ext != "" {
		if r.Home {
			r.Graph += "index"
		}
		r.Graph += "." + o.Ext
	}

	r.Offset = atoi(params.Get("offset"))
	if r.Offset < 0 {
		r.Offset = 0
	}
	r.Limit = atoi(params.Get("limit"))
	if r.Limit <= 0 {
		r.Limit = o.DefaultLimit
	}
	if o.MaxLimit > 0 && r.Limit > o.MaxLimit {
		r.Limit = o.MaxLimit
	}
	return r
}

// Has reports whether the parameter was supplied at all, even empty.
func (r *Request) Has(name string) bool {
	_, ok := r.Params[name]
	return ok
}

// Param returns the first value of name.
func (r *Request) Param(name string) string {
	return r.Params.Get(name)
}

// ParamMulti returns the non-empty values of name.
func (r *Request) ParamMulti(name string) []string {
	var out []string
	for _, v := range r.Params[name] {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParamInt parses the first value of name with Atoi semantics: leading digits
// are used and anything unparseable is zero.
func (r *Request) ParamInt(name string) int {
	return atoi(r.Params.Get(name))
}

// Consume returns the next unconsumed path segment.
func (r *Request) Consume() (string, bool) {
	segs := strings.Split(strings.Trim(r.Path, "/"), "/")
	for r.consumed < len(segs) {
		s := segs[r.consumed]
		r.consumed++
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// Subject returns the URI of the thing the response describes. Until one is
// set it is the abstract document URI.
func (r *Request) Subject() string {
	if r.subject == "" {
		return r.Canonical.String(canon.Abstract)
	}
	return r.subject
}

// SetSubject sets the subject URI.
func (r *Request) SetSubject(uri string) { r.subject = uri }

// Atoi parses a leading optionally-signed run of digits, ignoring the rest.
func Atoi(s string) int { return atoi(s) }

func atoi(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
