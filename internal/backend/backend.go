// Package backend resolves, once at startup, which index executor and which
// item sources a process uses.
package backend

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/config"
	"github.com/bbcarchdev/patchwork/internal/db/postgres"
	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/repository/filecache"
	"github.com/bbcarchdev/patchwork/internal/repository/relational"
	"github.com/bbcarchdev/patchwork/internal/repository/s3cache"
	"github.com/bbcarchdev/patchwork/internal/repository/sparql"
	"github.com/bbcarchdev/patchwork/internal/usecase/health"
	"github.com/bbcarchdev/patchwork/internal/usecase/item"
)

// Source labels.
const (
	SourceS3       = "s3"
	SourceFile     = "file"
	SourceSPARQL   = "sparql"
	SourceDatabase = "database"
)

// Executor answers index queries and lookups.
type Executor interface {
	Query(ctx context.Context, req *request.Request, q *query.Query) error
	Lookup(ctx context.Context, req *request.Request, uri string) error
	Membership(ctx context.Context, req *request.Request, id identifier.ID) error
	Item(ctx context.Context, req *request.Request, id identifier.ID) error
}

// IDLister enumerates every indexed item.
type IDLister interface {
	ListIDs(ctx context.Context) ([]identifier.ID, error)
}

// Backend is the capability set chosen from configuration. It is immutable
// after New and shared by all requests.
type Backend struct {
	// Executor is the relational index when a database is configured,
	// otherwise the SPARQL endpoint.
	Executor Executor
	// Sources are tried in order to load an item.
	Sources []item.Source
	// IDs is nil without a database.
	IDs        IDLister
	Components []health.Component

	closers []func()
}

// CacheKind is the storage scheme of the item cache.
type CacheKind string

// Cache kinds.
const (
	CacheNone CacheKind = ""
	CacheS3   CacheKind = "s3"
	CacheFile CacheKind = "file"
)

// CacheLocation is a parsed cache URI.
type CacheLocation struct {
	Kind CacheKind
	// Bucket for s3, directory for file.
	Location string
	// Deprecated is set when the location came from patchwork.bucket.
	Deprecated bool
}

// ParseCache reads the cache setting. An unknown scheme is
// domain.ErrUnsupportedConfiguration.
func ParseCache(cfg config.PatchworkConfig) (CacheLocation, error) {
	raw := cfg.Cache
	deprecated := false
	if raw == "" && cfg.Bucket != "" {
		raw = "s3://" + cfg.Bucket
		deprecated = true
	}
	if raw == "" {
		return CacheLocation{}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return CacheLocation{}, fmt.Errorf("%w: cache %q: %w", domain.ErrUnsupportedConfiguration, raw, err)
	}
	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return CacheLocation{}, fmt.Errorf("%w: cache %q has no bucket", domain.ErrUnsupportedConfiguration, raw)
		}
		return CacheLocation{Kind: CacheS3, Location: u.Host, Deprecated: deprecated}, nil
	case "file":
		dir := filepath.FromSlash(u.Host + u.Path)
		if dir == "" {
			return CacheLocation{}, fmt.Errorf("%w: cache %q has no path", domain.ErrUnsupportedConfiguration, raw)
		}
		return CacheLocation{Kind: CacheFile, Location: dir}, nil
	}
	return CacheLocation{}, fmt.Errorf("%w: cache scheme %q", domain.ErrUnsupportedConfiguration, u.Scheme)
}

// New connects to everything cfg names.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Backend, error) {
	b := &Backend{}

	cacheLoc, err := ParseCache(cfg.Patchwork)
	if err != nil {
		return nil, err
	}
	if cacheLoc.Deprecated {
		log.Warn("patchwork.bucket is deprecated, use patchwork.cache: s3://<bucket>",
			zap.String("bucket", cacheLoc.Location))
	}

	var cache item.Source
	switch cacheLoc.Kind {
	case CacheS3:
		c, err := s3cache.New(ctx, s3cache.Config{
			Bucket:     cacheLoc.Location,
			Region:     cfg.S3.Region,
			Endpoint:   cfg.S3.Endpoint,
			Access:     cfg.S3.Access,
			Secret:     cfg.S3.Secret,
			FetchLimit: cfg.S3.FetchLimit,
			Verbose:    cfg.S3.Verbose,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: s3 cache: %w", domain.ErrUnsupportedConfiguration, err)
		}
		cache = item.NewInstrumentedSource(SourceS3, c)
		b.Components = append(b.Components, health.Component{Name: "cache", Pinger: c})
		log.Info("using S3 cache", zap.String("bucket", c.Bucket()))
	case CacheFile:
		c := filecache.New(cacheLoc.Location)
		cache = item.NewInstrumentedSource(SourceFile, c)
		b.Components = append(b.Components, health.Component{Name: "cache", Pinger: c})
		log.Info("using file cache", zap.String("dir", c.Dir()))
	}

	var rel *relational.Repo
	if cfg.Patchwork.DB != "" {
		store, err := postgres.NewStore(postgres.Config{
			DSN:          cfg.Patchwork.DB,
			MaxOpenConns: cfg.Patchwork.MaxOpenConns,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: database: %w", domain.ErrUnsupportedConfiguration, err)
		}
		b.closers = append(b.closers, store.Close)

		timeout := time.Duration(cfg.Patchwork.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			b.Close()
			return nil, fmt.Errorf("%w: database: %w", domain.ErrUnsupportedConfiguration, err)
		}
		version, err := store.SchemaVersion(ctx, postgres.SchemaIdent)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("%w: database: %w", domain.ErrUnsupportedConfiguration, err)
		}
		log.Info("connected to database", zap.Int("schema_version", version))

		rel = relational.New(store)
		b.IDs = rel
		b.Components = append(b.Components, health.Component{Name: "database", Pinger: store, Critical: true})
	}

	var sp *sparql.Repo
	if rel == nil {
		sp, err = sparql.New(sparql.Config{
			Endpoint: cfg.SPARQL.Endpoint,
			Timeout:  time.Duration(cfg.SPARQL.TimeoutSec) * time.Second,
		})
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedConfiguration, err)
		}
		b.Components = append(b.Components, health.Component{Name: "sparql", Pinger: sp, Critical: true})
		log.Info("using SPARQL endpoint", zap.String("endpoint", cfg.SPARQL.Endpoint))
	}

	b.Sources = SourceOrder(cache, sp, rel)
	if rel != nil {
		b.Executor = rel
	} else {
		b.Executor = sp
	}
	return b, nil
}

// SourceOrder lists the item sources: the cache if there is one, otherwise
// the SPARQL endpoint, followed by synthesis from the database. Nil
// arguments are skipped.
func SourceOrder(cache item.Source, sp *sparql.Repo, rel *relational.Repo) []item.Source {
	var out []item.Source
	switch {
	case cache != nil:
		out = append(out, cache)
	case sp != nil:
		out = append(out, item.NewInstrumentedSource(SourceSPARQL, sp))
	}
	if rel != nil {
		out = append(out, item.NewInstrumentedSource(SourceDatabase, rel))
	}
	return out
}

// Close releases connections.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
