package relational

import (
	"strings"

	"github.com/lib/pq"

	"github.com/bbcarchdev/patchwork/internal/db"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/query/mode"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

var indexColumns = []string{`"i"."id"`, `"i"."classes"`, `"i"."title"`}

// buildQuery translates q into a statement over "index". ok is false when a
// filter names something that cannot match, such as a collection that is not
// a local item.
func buildQuery(q *query.Query) (b *db.SelectBuilder, ok bool) {
	b = db.Select(indexColumns...).
		From(`"index" "i"`).
		Where(`"i"."score" >= ?`, q.Score)

	if q.Class != "" {
		b.Where(`? = ANY("i"."classes")`, q.Class)
	}
	if q.Collection != "" {
		id, found := resolveID(q.Collection)
		if !found {
			return nil, false
		}
		b.Where(`"i"."id" IN (SELECT "id" FROM "membership" WHERE "collection" = ?)`, id.UUID().String())
	}
	if q.Text != "" {
		pattern := escapeLike(q.Text) + "%"
		if q.Mode != mode.Autocomplete {
			pattern = "%" + pattern
		}
		switch {
		case q.Lang != "":
			b.Where(`("i"."title" -> ?) ILIKE ?`, strings.ToLower(q.Lang), pattern)
		case q.Mode == mode.Autocomplete:
			b.Where(`EXISTS (SELECT 1 FROM svals("i"."title") "t" WHERE "t" ILIKE ?)`, pattern)
		default:
			b.Where(`(EXISTS (SELECT 1 FROM svals("i"."title") "t" WHERE "t" ILIKE ?) OR `+
				`EXISTS (SELECT 1 FROM svals("i"."description") "d" WHERE "d" ILIKE ?))`, pattern, pattern)
		}
	}
	if len(q.About) > 0 {
		ids := make([]string, 0, len(q.About))
		for _, a := range q.About {
			if id, found := resolveID(a); found {
				ids = append(ids, id.UUID().String())
			}
		}
		if len(ids) == 0 {
			return nil, false
		}
		b.Where(`"i"."id" IN (SELECT "id" FROM "about" WHERE "about" = ANY(?))`, pq.Array(ids))
	}
	if cond, args := mediaCondition(q); cond != "" {
		b.Where(cond, args...)
	}

	return b.OrderBy(`"i"."score" DESC`, `"i"."modified" DESC`).
		Limit(q.Limit + 1).
		Offset(q.Offset), true
}

// mediaCondition restricts results to items with related media matching the
// media, type, audience and duration filters.
func mediaCondition(q *query.Query) (string, []any) {
	var conds []string
	var args []any

	if q.Media != "" && q.Media != query.Any {
		uri, _ := vocab.MediaURIFor(q.Media)
		conds = append(conds, `"m"."class" = ?`)
		args = append(args, uri)
	}
	if q.Type != "" && q.Type != query.Any {
		conds = append(conds, `"m"."type" = ?`)
		args = append(args, q.Type)
	}
	switch {
	case q.AudienceAny():
	case q.AudienceAll():
		conds = append(conds, `"m"."audience" IS NULL`)
	default:
		conds = append(conds, `("m"."audience" IS NULL OR "m"."audience" = ANY(?))`)
		args = append(args, pq.Array(q.Audience))
	}
	if q.DurationMin > 0 {
		conds = append(conds, `"m"."duration" >= ?`)
		args = append(args, q.DurationMin)
	}
	if q.DurationMax > 0 {
		conds = append(conds, `"m"."duration" <= ?`)
		args = append(args, q.DurationMax)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return `EXISTS (SELECT 1 FROM "media" "m" WHERE "m"."id" = "i"."id" AND ` +
		strings.Join(conds, " AND ") + `)`, args
}

// resolveID accepts a bare identifier or a URI carrying one.
func resolveID(s string) (identifier.ID, bool) {
	if id, err := identifier.Parse(s); err == nil {
		return id, true
	}
	return identifier.FromURI(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
