package item

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/logger"
	"github.com/bbcarchdev/patchwork/internal/metrics"
)

// InstrumentedSource wraps a Source with fetch metrics and logging.
type InstrumentedSource struct {
	inner Source
	name  string
}

// NewInstrumentedSource names inner for metrics and logs.
func NewInstrumentedSource(name string, inner Source) *InstrumentedSource {
	return &InstrumentedSource{inner: inner, name: name}
}

// Name returns the source label.
func (s *InstrumentedSource) Name() string { return s.name }

// Item delegates to the inner source and records the outcome.
func (s *InstrumentedSource) Item(ctx context.Context, req *request.Request, id identifier.ID) error {
	start := time.Now()
	err := s.inner.Item(ctx, req, id)
	metrics.SourceFetchDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())

	log := logger.FromContext(ctx).With(
		zap.String("source", s.name),
		zap.String("id", id.String()),
	)
	switch {
	case err == nil:
		metrics.SourceFetchTotal.WithLabelValues(s.name, metrics.ResultHit).Inc()
		log.Debug("item fetched")
	case domain.IsMiss(err):
		metrics.SourceFetchTotal.WithLabelValues(s.name, metrics.ResultMiss).Inc()
		log.Warn("item not found in source")
	default:
		metrics.SourceFetchTotal.WithLabelValues(s.name, metrics.ResultError).Inc()
		log.Error("item fetch failed", zap.Error(err))
	}
	return err
}
