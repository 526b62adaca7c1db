// Package filecache reads pre-rendered item graphs from a directory of
// N-Quads files named by identifier.
package filecache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph/codec"
)

// Cache is a read-only flat-file cache.
type Cache struct {
	dir string
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Ping checks that the cache directory is readable.
func (c *Cache) Ping(_ context.Context) error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cache dir %s is not a directory", c.dir)
	}
	return nil
}

// Item parses the cached graph of id into the request model. A missing file
// is ErrNotFound; any other failure is ErrBackend.
func (c *Cache) Item(_ context.Context, req *request.Request, id identifier.ID) error {
	if len(id) != identifier.Length {
		return fmt.Errorf("file cache: %q: %w", id, domain.ErrNotFound)
	}
	path := filepath.Join(c.dir, string(id))
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file cache %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: file cache %s: %w", domain.ErrBackend, path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := codec.Decode(bufio.NewReader(f), req.Model, id.DocumentURI(req.Root)); err != nil {
		return fmt.Errorf("file cache %s: %w", path, err)
	}
	return nil
}
