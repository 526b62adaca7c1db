// Package query describes a listing or search against the index and builds
// one from request parameters.
package query

import (
	"slices"

	"github.com/bbcarchdev/patchwork/internal/domain/canon"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query/mode"
)

// ScoreUnset marks a score threshold that has not been resolved yet.
const ScoreUnset = -1

// Wildcard values for media, type and audience filters.
const (
	Any = "any"
	All = "all"
)

// Query is a structured query descriptor. It lives for one request.
type Query struct {
	Mode mode.Mode
	// Base is the URI of the dataset the results belong to.
	Base string
	// Resource is the URI of this page of results.
	Resource string
	// Explicit is set when any filtering parameter was supplied.
	Explicit   bool
	Collection string
	Class      string
	Text       string
	Lang       string
	Media      string
	Type       string
	About      []string
	// AboutAll selects AND semantics across About. Nothing sets it yet.
	AboutAll bool
	Audience []string
	Offset   int
	Limit    int
	Score    int
	// DurationMin and DurationMax are zero when unset.
	DurationMin int
	DurationMax int
	// More is set by an executor when another page exists.
	More bool
	// SubjectURI is the canonical subject of a single-topic query.
	SubjectURI string
}

// New returns an empty query with an unresolved score.
func New() *Query {
	return &Query{Score: ScoreUnset}
}

// ResolveScore applies the default threshold if none was given. Calling it
// again is a no-op.
func (q *Query) ResolveScore(threshold int) {
	if q.Score == ScoreUnset {
		q.Score = threshold
	}
}

// DeriveSubject sets SubjectURI from a single About topic.
func (q *Query) DeriveSubject(root string) {
	if len(q.About) != 1 || q.SubjectURI != "" {
		return
	}
	u := canon.New(root)
	u.AddPath(q.About[0])
	u.SetFragment(identifier.Fragment)
	q.SubjectURI = u.String(canon.Subject)
}

// HasMediaFilter reports whether any of media, type or audience is set.
func (q *Query) HasMediaFilter() bool {
	return q.Media != "" || q.Type != "" || len(q.Audience) > 0
}

// AudienceAny reports whether the audience filter is absent or a wildcard.
func (q *Query) AudienceAny() bool {
	return len(q.Audience) == 0 || slices.Contains(q.Audience, Any)
}

// AudienceAll reports whether only universally available media qualify.
func (q *Query) AudienceAll() bool {
	return slices.Contains(q.Audience, All)
}
