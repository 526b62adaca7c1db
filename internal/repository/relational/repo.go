// Package relational executes queries against the PostgreSQL index written
// by the ingestion pipeline.
//
// Tables read:
//
//	"index"        ("id" uuid, "classes" text[], "title" hstore, "description" hstore, "score" int, "modified" timestamp)
//	"membership"   ("id" uuid, "collection" uuid)
//	"about"        ("id" uuid, "about" uuid)
//	"media"        ("id" uuid, "class" text, "type" text, "audience" text, "duration" int)
//	"proxy_sameas" ("id" uuid, "uri" text)
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bbcarchdev/patchwork/internal/db"
	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

// Repo implements the relational executor and item source.
type Repo struct {
	store db.Querier
}

// New creates a relational repository.
func New(s db.Querier) *Repo {
	return &Repo{store: s}
}

// Query runs q and asserts one rdfs:seeAlso link per hit from the result
// resource, with the hit's label and classes, in the request graph. The
// statement asks for one row past the limit to learn whether More is set.
func (r *Repo) Query(ctx context.Context, req *request.Request, q *query.Query) error {
	b, ok := buildQuery(q)
	if !ok {
		q.More = false
		return nil
	}
	text, args := b.Build()

	rows, err := r.store.QueryContext(ctx, text, args...)
	if err != nil {
		return backendErr(db.OpQuery, err)
	}
	defer rows.Close()

	resource := graph.IRI(q.Resource)
	n := 0
	for rows.Next() {
		var row indexRow
		if err := rows.Scan(&row.ID, &row.Classes, &row.Title); err != nil {
			return backendErr(db.OpQuery, err)
		}
		n++
		if n > q.Limit {
			q.More = true
			break
		}
		item := graph.IRI(identifier.FromUUID(row.ID).URI(req.Root))
		req.Model.Add(req.Graph, resource, graph.IRI(vocab.RDFSSeeAlso), item)
		for _, l := range literals(row.Title) {
			req.Model.Add(req.Graph, item, graph.IRI(vocab.RDFSLabel), l)
		}
		for _, c := range row.Classes {
			req.Model.Add(req.Graph, item, graph.IRI(vocab.RDFType), graph.IRI(c))
		}
	}
	if err := rows.Err(); err != nil {
		return backendErr(db.OpQuery, err)
	}
	return nil
}

// Item synthesizes an item's description from its index row into the
// item's document context. Source URIs recorded for the proxy are asserted
// as owl:sameAs the item.
func (r *Repo) Item(ctx context.Context, req *request.Request, id identifier.ID) error {
	var row indexRow
	err := r.store.QueryRowContext(ctx,
		`SELECT "id", "classes", "title", "description" FROM "index" WHERE "id" = $1`,
		id.UUID().String(),
	).Scan(&row.ID, &row.Classes, &row.Title, &row.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return backendErr(db.OpItem, err)
	}

	doc := id.DocumentURI(req.Root)
	subject := graph.IRI(id.URI(req.Root))
	for _, c := range row.Classes {
		req.Model.Add(doc, subject, graph.IRI(vocab.RDFType), graph.IRI(c))
	}
	for _, l := range literals(row.Title) {
		req.Model.Add(doc, subject, graph.IRI(vocab.RDFSLabel), l)
	}
	for _, l := range literals(row.Description) {
		req.Model.Add(doc, subject, graph.IRI(vocab.DCTermsDescription), l)
	}

	rows, err := r.store.QueryContext(ctx, `SELECT "uri" FROM "proxy_sameas" WHERE "id" = $1`, id.UUID().String())
	if err != nil {
		return backendErr(db.OpItem, err)
	}
	defer rows.Close()
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return backendErr(db.OpItem, err)
		}
		req.Model.Add(doc, graph.IRI(uri), graph.IRI(vocab.OWLSameAs), subject)
	}
	if err := rows.Err(); err != nil {
		return backendErr(db.OpItem, err)
	}
	return nil
}

// Membership asserts dcterms:isPartOf for every collection containing id.
func (r *Repo) Membership(ctx context.Context, req *request.Request, id identifier.ID) error {
	rows, err := r.store.QueryContext(ctx,
		`SELECT "collection" FROM "membership" WHERE "id" = $1`, id.UUID().String())
	if err != nil {
		return backendErr(db.OpMembership, err)
	}
	defer rows.Close()

	subject := graph.IRI(id.URI(req.Root))
	for rows.Next() {
		var coll uuid.UUID
		if err := rows.Scan(&coll); err != nil {
			return backendErr(db.OpMembership, err)
		}
		req.Model.Add(req.Graph, subject, graph.IRI(vocab.DCTermsIsPartOf),
			graph.IRI(identifier.FromUUID(coll).URI(req.Root)))
	}
	if err := rows.Err(); err != nil {
		return backendErr(db.OpMembership, err)
	}
	return nil
}

// Lookup finds the proxy for an external URI and sets the request's
// redirect target to the proxy's document.
func (r *Repo) Lookup(ctx context.Context, req *request.Request, uri string) error {
	var id uuid.UUID
	err := r.store.QueryRowContext(ctx,
		`SELECT "id" FROM "proxy_sameas" WHERE "uri" = $1 LIMIT 1`, uri).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup <%s>: %w", uri, domain.ErrNotFound)
	}
	if err != nil {
		return backendErr(db.OpLookup, err)
	}
	req.Location = identifier.FromUUID(id).DocumentURI(req.Root)
	return nil
}

// ListIDs returns every indexed item.
func (r *Repo) ListIDs(ctx context.Context) ([]identifier.ID, error) {
	rows, err := r.store.QueryContext(ctx, `SELECT "id" FROM "index" ORDER BY "id"`)
	if err != nil {
		return nil, backendErr(db.OpList, err)
	}
	defer rows.Close()

	var out []identifier.ID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, backendErr(db.OpList, err)
		}
		out = append(out, identifier.FromUUID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, backendErr(db.OpList, err)
	}
	return out, nil
}

func backendErr(op string, err error) error {
	return fmt.Errorf("%w: %w", domain.ErrBackend, &db.Error{Op: op, Err: err})
}
