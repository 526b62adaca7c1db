package dispatch

import (
	"context"

	"github.com/bbcarchdev/patchwork/internal/domain/partition"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
)

// Partitions finds the partition registered at a path.
type Partitions interface {
	Lookup(path string) (partition.Entry, bool)
}

// IndexResolver lists the index, optionally narrowed to a class.
type IndexResolver interface {
	Resolve(ctx context.Context, req *request.Request, class string) error
}

// ItemResolver describes a single item.
type ItemResolver interface {
	Resolve(ctx context.Context, req *request.Request) error
}

// Locator maps an external URI to the local proxy that describes it.
type Locator interface {
	Lookup(ctx context.Context, req *request.Request, uri string) error
}
