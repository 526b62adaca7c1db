package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph/codec"
)

func fetch(ctx context.Context, env, logLevel, id string, out io.Writer) error {
	a, err := newApp(ctx, env, logLevel)
	if err != nil {
		return err
	}
	defer a.Close()

	req := request.New(request.Options{
		Root:         a.cfg.Patchwork.Root,
		Path:         "/" + id,
		Type:         codec.NQuads.MediaType,
		Ext:          codec.NQuads.Ext,
		DefaultLimit: a.cfg.Patchwork.DefaultLimit,
		MaxLimit:     a.cfg.Patchwork.MaxLimit,
	})
	if err := a.items.Resolve(ctx, req); err != nil {
		return fmt.Errorf("fetch %s: %w", id, err)
	}
	return codec.Encode(out, req.Model, codec.NQuads, req.Graph)
}
