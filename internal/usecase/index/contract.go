package index

import (
	"context"

	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
)

// Executor runs a structured query against the index backend, asserting
// results into the request model and setting q.More when another page exists.
type Executor interface {
	Query(ctx context.Context, req *request.Request, q *query.Query) error
}
