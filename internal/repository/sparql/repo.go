// Package sparql executes queries against a SPARQL endpoint holding the
// coreference graphs, one named graph per item.
package sparql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/knakk/rdf"
	"github.com/knakk/sparql"
	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph"
	"github.com/bbcarchdev/patchwork/internal/graph/codec"
	"github.com/bbcarchdev/patchwork/internal/logger"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

// endpoint is the consumer interface for a SPARQL query service (ISP).
type endpoint interface {
	Query(q string) (*sparql.Results, error)
}

// Config holds endpoint parameters.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Repo implements the SPARQL executor and item source.
type Repo struct {
	ep endpoint
}

// New connects to the endpoint in cfg.
func New(cfg Config) (*Repo, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	var opts []func(*sparql.Repo) error
	if cfg.Timeout > 0 {
		opts = append(opts, sparql.Timeout(cfg.Timeout))
	}
	ep, err := sparql.NewRepo(cfg.Endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("sparql %s: %w", cfg.Endpoint, err)
	}
	return &Repo{ep: ep}, nil
}

// Ping runs a trivial query.
func (r *Repo) Ping(_ context.Context) error {
	if _, err := r.ep.Query("SELECT ?s WHERE { ?s ?p ?o } LIMIT 1"); err != nil {
		return fmt.Errorf("sparql ping: %w", err)
	}
	return nil
}

// Query runs q and asserts one rdfs:seeAlso link per matching subject from
// the result resource, with its classes and labels, in the request graph.
func (r *Repo) Query(ctx context.Context, req *request.Request, q *query.Query) error {
	text, err := buildSelect(req.Root, q)
	if errors.Is(err, errBadIRI) {
		// A filter no IRI can equal matches nothing.
		logger.FromContext(ctx).Debug("sparql filter matches nothing", zap.Error(err))
		q.More = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	res, err := r.ep.Query(text)
	if err != nil {
		return fmt.Errorf("%w: sparql query: %w", domain.ErrBackend, err)
	}

	type hit struct {
		classes []rdf.Term
		labels  []rdf.Term
	}
	hits := make(map[string]*hit)
	for _, sol := range res.Solutions() {
		s, ok := sol["s"]
		if !ok {
			continue
		}
		h := hits[s.String()]
		if h == nil {
			h = &hit{}
			hits[s.String()] = h
		}
		if c, ok := sol["class"]; ok {
			h.classes = append(h.classes, c)
		}
		if l, ok := sol["label"]; ok {
			h.labels = append(h.labels, l)
		}
	}

	subjects := make([]string, 0, len(hits))
	for s := range hits {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	if len(subjects) > q.Limit {
		q.More = true
		subjects = subjects[:q.Limit]
	}

	resource := graph.IRI(q.Resource)
	for _, s := range subjects {
		item := graph.IRI(s)
		req.Model.Add(req.Graph, resource, graph.IRI(vocab.RDFSSeeAlso), item)
		for _, c := range hits[s].classes {
			req.Model.Add(req.Graph, item, graph.IRI(vocab.RDFType), codec.FromRDF(c))
		}
		for _, l := range hits[s].labels {
			req.Model.Add(req.Graph, item, graph.IRI(vocab.RDFSLabel), codec.FromRDF(l))
		}
	}
	return nil
}

// Item loads every statement of the item's named graph into that context.
// An empty graph is a miss.
func (r *Repo) Item(_ context.Context, req *request.Request, id identifier.ID) error {
	doc := id.DocumentURI(req.Root)
	text, err := buildItem(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}
	res, err := r.ep.Query(text)
	if err != nil {
		return fmt.Errorf("%w: sparql item %s: %w", domain.ErrBackend, id, err)
	}
	n := 0
	for _, sol := range res.Solutions() {
		s, p, o := sol["s"], sol["p"], sol["o"]
		if s == nil || p == nil || o == nil {
			continue
		}
		req.Model.Add(doc, codec.FromRDF(s), codec.FromRDF(p), codec.FromRDF(o))
		n++
	}
	if n == 0 {
		return fmt.Errorf("sparql item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Membership is not available from a SPARQL store; it succeeds without
// asserting anything.
func (r *Repo) Membership(context.Context, *request.Request, identifier.ID) error {
	return nil
}

// Lookup finds a local subject declared owl:sameAs target and sets the
// request's redirect target to its document.
func (r *Repo) Lookup(_ context.Context, req *request.Request, target string) error {
	text, err := buildLookup(req.Root, target)
	if err != nil {
		return fmt.Errorf("lookup <%s>: %w", target, domain.ErrNotFound)
	}
	res, err := r.ep.Query(text)
	if err != nil {
		return fmt.Errorf("%w: sparql lookup: %w", domain.ErrBackend, err)
	}
	for _, sol := range res.Solutions() {
		if s, ok := sol["s"]; ok {
			uri, _, _ := strings.Cut(s.String(), "#")
			req.Location = uri
			return nil
		}
	}
	return fmt.Errorf("lookup <%s>: %w", target, domain.ErrNotFound)
}
