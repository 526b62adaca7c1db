package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/domain/canon"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/logger"
	"github.com/bbcarchdev/patchwork/internal/usecase/enrich"
)

// Service resolves listings: partitions, ad-hoc class listings and searches.
type Service struct {
	exec    Executor
	builder query.Builder
}

// New creates an index service.
func New(exec Executor, builder query.Builder) *Service {
	return &Service{exec: exec, builder: builder}
}

// Resolve lists the index, optionally narrowed to class, and describes the
// listing.
func (s *Service) Resolve(ctx context.Context, req *request.Request, class string) error {
	req.Canonical.SetFragment("")

	q := query.New()
	s.builder.Build(req, q, class)
	if req.IndexTitle == "" {
		req.IndexTitle = enrich.DefaultTitle
	}

	if err := s.Execute(ctx, req, q); err != nil {
		return err
	}
	enrich.Meta(req, q)
	enrich.OpenSearch(req)
	enrich.Concrete(req)
	return nil
}

// Execute fills in the parts of q the request determines and runs it.
func (s *Service) Execute(ctx context.Context, req *request.Request, q *query.Query) error {
	if q.Base == "" {
		q.Base = req.Canonical.String(canon.Abstract)
	}
	if q.Resource == "" {
		q.Resource = req.Canonical.String(canon.Resource)
		if q.Explicit || req.Index {
			req.SetSubject(q.Resource)
		}
	}
	if q.Limit <= 0 {
		q.Limit = req.Limit
	}
	q.DeriveSubject(req.Root)
	q.ResolveScore(s.builder.Threshold())

	logger.FromContext(ctx).Debug("executing query", zap.Stringer("query", q))

	if err := s.exec.Query(ctx, req, q); err != nil {
		return fmt.Errorf("execute query: %w", err)
	}
	return nil
}
