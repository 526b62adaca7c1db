package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/backend"
	"github.com/bbcarchdev/patchwork/internal/config"
	"github.com/bbcarchdev/patchwork/internal/domain/partition"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	logpkg "github.com/bbcarchdev/patchwork/internal/logger"
	"github.com/bbcarchdev/patchwork/internal/metrics"
	"github.com/bbcarchdev/patchwork/internal/usecase/dispatch"
	healthuc "github.com/bbcarchdev/patchwork/internal/usecase/health"
	"github.com/bbcarchdev/patchwork/internal/usecase/index"
	"github.com/bbcarchdev/patchwork/internal/usecase/item"
	"github.com/bbcarchdev/patchwork/internal/version"
)

// app is the composition root shared by serve and fetch.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	backend  *backend.Backend
	items    *item.Service
	dispatch *dispatch.Service
	health   *healthuc.Service
}

func setup(env, logLevel string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}
	logger, err := logpkg.New(env, logLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

func newApp(ctx context.Context, env, logLevel string) (*app, error) {
	cfg, logger, err := setup(env, logLevel)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting patchwork",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("root", cfg.Patchwork.Root),
		zap.Int("score", cfg.ScoreThreshold()),
	)

	metrics.RegisterResolveMetrics()

	b, err := backend.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	builder := query.NewBuilder(cfg.ScoreThreshold())
	indexSvc := index.New(b.Executor, builder)
	itemSvc := item.New(b.Sources, b.Executor, indexSvc, builder, item.Coref(cfg.Patchwork.CorefContext))

	registry := partition.NewRegistry(partitionSpecs(cfg.Partition))
	for _, e := range registry.Entries() {
		logger.Debug("partition", zap.String("path", e.Path), zap.String("class", e.Class), zap.String("title", e.Title))
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		backend:  b,
		items:    itemSvc,
		dispatch: dispatch.New(registry, indexSvc, itemSvc, b.Executor),
		health:   healthuc.New(b.Components...),
	}, nil
}

func (a *app) Close() {
	a.backend.Close()
	_ = a.logger.Sync()
}

func partitionSpecs(in map[string]config.PartitionConfig) map[string]partition.Spec {
	out := make(map[string]partition.Spec, len(in))
	for name, p := range in {
		out[name] = partition.Spec{Class: p.Class, Title: p.Title}
	}
	return out
}
