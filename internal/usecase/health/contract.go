package health

import "context"

// Pinger checks that a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
