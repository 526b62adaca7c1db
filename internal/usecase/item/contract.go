package item

import (
	"context"

	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
)

// Source loads the statements describing an item into the request model.
// A source that does not hold the item returns domain.ErrNotFound.
type Source interface {
	Item(ctx context.Context, req *request.Request, id identifier.ID) error
}

// MembershipReader asserts the collections an item belongs to.
type MembershipReader interface {
	Membership(ctx context.Context, req *request.Request, id identifier.ID) error
}

// Indexer runs a prepared query through the index backend.
type Indexer interface {
	Execute(ctx context.Context, req *request.Request, q *query.Query) error
}
