package item

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/canon"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph"
	"github.com/bbcarchdev/patchwork/internal/logger"
	"github.com/bbcarchdev/patchwork/internal/usecase/enrich"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

// Coref selects the graph context inverse owl:sameAs statements are
// asserted in.
type Coref string

// Coref targets.
const (
	// CorefConcrete asserts every inverse statement in the served document.
	CorefConcrete Coref = "concrete"
	// CorefSource keeps the context of the statement being inverted.
	CorefSource Coref = "source"
)

// Service resolves single items.
type Service struct {
	sources []Source
	members MembershipReader
	index   Indexer
	builder query.Builder
	coref   Coref
}

// New creates an item service. sources are tried in order and the first to
// succeed wins.
func New(
	sources []Source, members MembershipReader, index Indexer,
	builder query.Builder, coref Coref,
) *Service {
	if coref == "" {
		coref = CorefConcrete
	}
	return &Service{
		sources: sources,
		members: members,
		index:   index,
		builder: builder,
		coref:   coref,
	}
}

// Resolve describes the item named by the next path segment of req.
func (s *Service) Resolve(ctx context.Context, req *request.Request) error {
	seg, ok := req.Consume()
	if !ok {
		return domain.ErrNotFound
	}
	id, err := identifier.Parse(seg)
	if err != nil {
		return fmt.Errorf("item %q: %w", seg, err)
	}

	req.Canonical.AddPath(id.String())
	req.Canonical.SetFragment(identifier.Fragment)
	req.SetSubject(req.Canonical.String(canon.Subject))

	if err = s.fetch(ctx, req, id); err != nil {
		return err
	}
	s.Postprocess(ctx, req)

	if err = s.members.Membership(ctx, req, id); err != nil {
		return fmt.Errorf("membership: %w", err)
	}
	if err = s.related(ctx, req, id); err != nil {
		return fmt.Errorf("related: %w", err)
	}
	enrich.Concrete(req)
	return nil
}

func (s *Service) fetch(ctx context.Context, req *request.Request, id identifier.ID) error {
	err := fmt.Errorf("no source for %s: %w", id, domain.ErrNotFound)
	for _, src := range s.sources {
		if err = src.Item(ctx, req, id); err == nil {
			return nil
		}
	}
	return err
}

// Postprocess merges the abstract document context into the served one,
// applies the allow whitelist and makes coreference statements point away
// from the canonical subject. Running it again changes nothing.
func (s *Service) Postprocess(ctx context.Context, req *request.Request) {
	m := req.Model
	log := logger.FromContext(ctx)

	if abstract := req.Canonical.String(canon.Abstract); abstract != req.Graph {
		m.MoveContext(abstract, req.Graph)
	}

	if allow := req.ParamMulti("allow"); len(allow) > 0 {
		for _, c := range m.Contexts() {
			if !hasAnyPrefix(c, allow) {
				n := m.RemoveContext(c)
				log.Debug("context not allowed", zap.String("context", c), zap.Int("removed", n))
			}
		}
	}

	subject := graph.IRI(req.Canonical.String(canon.Subject))
	sameAs := graph.IRI(vocab.OWLSameAs)
	for _, st := range m.Find(graph.Pattern{Predicate: sameAs, Object: subject, AnyContext: true}) {
		if !st.Subject.IsIRI() || st.Subject == subject {
			continue
		}
		target := req.Graph
		if s.coref == CorefSource {
			target = st.Context
		}
		m.Add(target, subject, sameAs, st.Subject)
	}
}

// related lists the members of a collection, or for anything else the
// items that are about it.
func (s *Service) related(ctx context.Context, req *request.Request, id identifier.ID) error {
	subject := req.Canonical.String(canon.Subject)
	isCollection := req.Model.Has(graph.Pattern{
		Subject:    graph.IRI(subject),
		Predicate:  graph.IRI(vocab.RDFType),
		Object:     graph.IRI(vocab.DCMITypeCollection),
		AnyContext: true,
	})

	q := query.New()
	if !isCollection {
		q.About = []string{id.String()}
		return s.index.Execute(ctx, req, q)
	}

	logger.FromContext(ctx).Debug("listing collection members", zap.String("collection", subject))
	q.Collection = subject
	s.builder.Build(req, q, "")
	if err := s.index.Execute(ctx, req, q); err != nil {
		return err
	}
	enrich.Meta(req, q)
	enrich.OpenSearch(req)
	return nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
