package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound signals a missing item, cache entry or lookup target.
	ErrNotFound = errors.New("not found")
	// ErrInvalidIdentifier signals a malformed item identifier. It is
	// reported to clients as not found.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrBackend signals a query, parse or storage failure.
	ErrBackend = errors.New("backend failure")
	// ErrUnsupportedConfiguration aborts startup.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	// ErrNotAcceptable signals that no supported serialization was requested.
	ErrNotAcceptable = errors.New("not acceptable")
)

// Status maps an error returned by a resolver to the HTTP status the
// request completes with. A nil error is 200.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidIdentifier):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAcceptable):
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}

// IsMiss reports whether err is an expected fall-through signal rather than a
// failure.
func IsMiss(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidIdentifier)
}
