// Package dispatch classifies a request and hands it to the resolver that
// serves it.
package dispatch

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/logger"
	"github.com/bbcarchdev/patchwork/internal/metrics"
	"github.com/bbcarchdev/patchwork/internal/usecase/enrich"
)

// Kind names the resolver a request was routed to.
type Kind string

// Request kinds.
const (
	KindPartition Kind = "partition"
	KindItem      Kind = "item"
	KindLookup    Kind = "lookup"
	KindQuery     Kind = "query"
	KindHome      Kind = "home"
	KindNone      Kind = "none"
)

// searchParams at the service root turn a request into a search.
var searchParams = []string{"q", "media", "for", "type"}

// Service routes requests.
type Service struct {
	partitions Partitions
	index      IndexResolver
	items      ItemResolver
	locator    Locator
}

// New creates a dispatcher.
func New(partitions Partitions, index IndexResolver, items ItemResolver, locator Locator) *Service {
	return &Service{
		partitions: partitions,
		index:      index,
		items:      items,
		locator:    locator,
	}
}

// Process resolves req, filling its model. The returned Kind says which
// resolver ran.
func (s *Service) Process(ctx context.Context, req *request.Request) (Kind, error) {
	kind := s.classify(req)
	logger.FromContext(ctx).Debug("dispatching request",
		zap.String("kind", string(kind)),
		zap.String("path", req.Path),
	)

	err := s.resolve(ctx, req, kind)
	metrics.ResolveTotal.WithLabelValues(string(kind), strconv.Itoa(domain.Status(err))).Inc()
	return kind, err
}

func (s *Service) classify(req *request.Request) Kind {
	if _, ok := s.partitions.Lookup(req.Path); ok {
		return KindPartition
	}
	switch {
	case req.Home && req.Param("class") != "":
		return KindPartition
	case identifier.IsItemPath(req.Path):
		return KindItem
	case req.Home && req.Has("uri"):
		return KindLookup
	case req.Home && s.isSearch(req):
		return KindQuery
	case req.Home:
		return KindHome
	}
	return KindNone
}

func (s *Service) isSearch(req *request.Request) bool {
	for _, p := range searchParams {
		if req.Has(p) {
			return true
		}
	}
	return false
}

func (s *Service) resolve(ctx context.Context, req *request.Request, kind Kind) error {
	switch kind {
	case KindPartition:
		return s.partition(ctx, req)
	case KindItem:
		return s.items.Resolve(ctx, req)
	case KindLookup:
		return s.Lookup(ctx, req, req.Param("uri"))
	case KindQuery:
		req.Index = true
		req.Home = false
		return s.index.Resolve(ctx, req, "")
	case KindHome:
		return s.Home(req)
	}
	return fmt.Errorf("%s: %w", req.Path, domain.ErrNotFound)
}

func (s *Service) partition(ctx context.Context, req *request.Request) error {
	if e, ok := s.partitions.Lookup(req.Path); ok {
		req.IndexTitle = e.Title
		req.Index = true
		req.Home = false
		req.Canonical.AddPath(e.Path)
		return s.index.Resolve(ctx, req, e.Class)
	}

	class := req.Param("class")
	req.Canonical.SetParam("class", class)
	if req.IndexTitle == "" {
		req.IndexTitle = class
	}
	req.Index = true
	req.Home = false
	return s.index.Resolve(ctx, req, class)
}

// Lookup redirects to the local proxy of an external URI.
func (s *Service) Lookup(ctx context.Context, req *request.Request, uri string) error {
	if uri == "" {
		return fmt.Errorf("empty lookup target: %w", domain.ErrNotFound)
	}
	req.Canonical.SetParam("uri", uri)
	if err := s.locator.Lookup(ctx, req, uri); err != nil {
		return fmt.Errorf("lookup %s: %w", uri, err)
	}
	return nil
}

// Home describes the service root.
func (s *Service) Home(req *request.Request) error {
	enrich.OpenSearch(req)
	enrich.Concrete(req)
	return nil
}
