package db

import (
	"strconv"
	"strings"
)

// SelectBuilder is a fluent builder for PostgreSQL SELECT statements.
// Conditions use '?' placeholders, which Build renumbers to $1, $2, ...
type SelectBuilder struct {
	columns []string
	from    string
	where   []string
	args    []any
	orderBy []string
	limit   int
	offset  int
}

// Select starts a statement returning columns.
func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns, limit: -1}
}

// From sets the source table.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = table
	return b
}

// Where adds a condition ANDed with the others. cond holds one '?' per arg.
func (b *SelectBuilder) Where(cond string, args ...any) *SelectBuilder {
	b.where = append(b.where, cond)
	b.args = append(b.args, args...)
	return b
}

// OrderBy appends sort expressions.
func (b *SelectBuilder) OrderBy(exprs ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, exprs...)
	return b
}

// Limit bounds the row count; negative means no limit.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// Offset skips rows.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = n
	return b
}

// Build returns the SQL text and its arguments.
func (b *SelectBuilder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	args := append([]any(nil), b.args...)
	if b.limit >= 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, b.limit)
	}
	if b.offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, b.offset)
	}
	return renumber(sb.String()), args
}

// String returns the SQL text for debug logs.
func (b *SelectBuilder) String() string {
	q, _ := b.Build()
	return q
}

// renumber replaces '?' outside quoted strings and identifiers with $n.
func renumber(q string) string {
	var sb strings.Builder
	sb.Grow(len(q) + 8)
	n := 0
	var quote byte
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
