package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/backend"
	"github.com/bbcarchdev/patchwork/internal/trigger"
)

func update(ctx context.Context, env, logLevel string, args []string) error {
	cfg, logger, err := setup(env, logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	targets := args
	if len(args) == 1 && args[0] == "all" {
		if cfg.Patchwork.DB == "" {
			return errors.New("update all requires patchwork.db")
		}
		b, err := backend.New(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("backend: %w", err)
		}
		defer b.Close()

		ids, err := b.IDs.ListIDs(ctx)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		targets = make([]string, len(ids))
		for i, id := range ids {
			targets[i] = id.String()
		}
	}

	t, err := trigger.Connect(trigger.Config{
		URL:     cfg.NATS.URL,
		Subject: cfg.NATS.Subject,
		Root:    cfg.Patchwork.Root,
	})
	if err != nil {
		return fmt.Errorf("trigger: %w", err)
	}
	defer t.Close()

	if err := t.Update(ctx, targets...); err != nil {
		return err
	}
	logger.Info("Update requested", zap.Int("items", len(targets)), zap.String("subject", cfg.NATS.Subject))
	return nil
}
