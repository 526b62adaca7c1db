package db

import "errors"

// ErrNoRows is returned when a single-row lookup finds nothing.
var ErrNoRows = errors.New("db: no rows")

// Op names for error context.
const (
	OpConnect    = "CONNECT"
	OpPing       = "PING"
	OpVersion    = "VERSION"
	OpQuery      = "QUERY"
	OpItem       = "ITEM"
	OpMembership = "MEMBERSHIP"
	OpLookup     = "LOOKUP"
	OpList       = "LIST"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
