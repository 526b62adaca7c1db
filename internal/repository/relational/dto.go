package relational

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lib/pq/hstore"

	"github.com/bbcarchdev/patchwork/internal/graph"
)

// noLang is the hstore key of a label without a language tag.
const noLang = "_"

// indexRow is one row of the "index" table.
type indexRow struct {
	ID          uuid.UUID
	Classes     pq.StringArray
	Title       hstore.Hstore
	Description hstore.Hstore
}

// literals converts an hstore of language → text into literal terms, in key
// order so output is stable.
func literals(h hstore.Hstore) []graph.Term {
	keys := make([]string, 0, len(h.Map))
	for k, v := range h.Map {
		if v.Valid && v.String != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]graph.Term, 0, len(keys))
	for _, k := range keys {
		v := h.Map[k].String
		if k == "" || k == noLang {
			out = append(out, graph.Literal(v))
			continue
		}
		out = append(out, graph.LangLiteral(v, k))
	}
	return out
}
