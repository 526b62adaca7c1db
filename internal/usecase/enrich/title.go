package enrich

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

// DefaultTitle is the index title used when nothing more specific applies.
const DefaultTitle = "Everything"

var labelPreference = []language.Tag{language.BritishEnglish, language.English}

// Title composes the human-readable label of a listing.
func Title(req *request.Request, q *query.Query) string {
	var parts []string
	singular := false

	switch {
	case req.IndexTitle != "":
		parts = append(parts, req.IndexTitle)
		singular = strings.EqualFold(req.IndexTitle, DefaultTitle)
	case q.Class != "":
		parts = append(parts, "Items with class <"+q.Class+">")
	default:
		parts = append(parts, DefaultTitle)
		singular = true
	}

	if q.Collection != "" {
		uri := identifier.Local(req.Root, q.Collection)
		if label, ok := collectionLabel(req.Model, uri); ok {
			parts = append(parts, " within “"+label+"”")
		} else {
			parts = append(parts, " within <"+q.Collection+">")
		}
	}

	if q.Text != "" {
		parts = append(parts, ` containing "`+q.Text+`"`)
	}

	if q.HasMediaFilter() {
		parts = append(parts, mediaClause(q, singular)...)
	}
	return strings.Join(parts, "")
}

func mediaClause(q *query.Query, singular bool) []string {
	var parts []string
	if singular {
		parts = append(parts, " which has related")
	} else {
		parts = append(parts, " which have related")
	}

	if name, ok := vocab.MediaNameFor(q.Media); ok {
		parts = append(parts, " "+name)
	} else {
		if q.Media != "" && q.Media != query.Any {
			parts = append(parts, " <"+q.Media+">")
		}
		parts = append(parts, " media")
	}

	if q.Type != "" && q.Type != query.Any {
		parts = append(parts, " which is "+q.Type)
	}

	switch {
	case q.AudienceAny():
	case q.AudienceAll():
		parts = append(parts, " available to everyone")
	default:
		parts = append(parts, " available to <"+strings.Join(q.Audience, ", ")+">")
	}
	return parts
}

// collectionLabel picks the rdfs:label of uri, in any context, preferring
// British English, then English, then an untagged literal.
func collectionLabel(m *graph.Model, uri string) (string, bool) {
	labels := m.Find(graph.Pattern{
		Subject:    graph.IRI(uri),
		Predicate:  graph.IRI(vocab.RDFSLabel),
		AnyContext: true,
	})
	if len(labels) == 0 {
		return "", false
	}

	for _, want := range labelPreference {
		for _, l := range labels {
			if !l.Object.IsLiteral() || l.Object.Lang == "" {
				continue
			}
			if t, err := language.Parse(l.Object.Lang); err == nil && t == want {
				return l.Object.Value, true
			}
		}
	}
	for _, l := range labels {
		if l.Object.IsLiteral() && l.Object.Lang == "" {
			return l.Object.Value, true
		}
	}
	return "", false
}
