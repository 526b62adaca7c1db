// Package identifier normalizes opaque item identifiers.
//
// An identifier is 32 lowercase hex digits. Input may contain hyphens and
// upper-case digits, so a UUID in its usual form is accepted.
package identifier

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/bbcarchdev/patchwork/internal/domain"
)

// Length is the number of hex digits in an identifier.
const Length = 32

// Fragment is appended to an item's document URI to name the item itself.
const Fragment = "id"

// ID is a normalized item identifier.
type ID string

// Parse normalizes s. Hyphens are discarded; any other non-hex character, or
// a digit count other than 32, is ErrInvalidIdentifier.
func Parse(s string) (ID, error) {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-':
			continue
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
			b.WriteByte(c)
		case c >= 'A' && c <= 'F':
			b.WriteByte(c + ('a' - 'A'))
		default:
			return "", fmt.Errorf("%w: unexpected %q in %q", domain.ErrInvalidIdentifier, c, s)
		}
		if b.Len() > Length {
			return "", fmt.Errorf("%w: %q is too long", domain.ErrInvalidIdentifier, s)
		}
	}
	if b.Len() != Length {
		return "", fmt.Errorf("%w: %q has %d hex digits", domain.ErrInvalidIdentifier, s, b.Len())
	}
	return ID(b.String()), nil
}

// FromUUID converts a UUID, as scanned from a database column.
func FromUUID(u uuid.UUID) ID {
	return ID(strings.ReplaceAll(u.String(), "-", ""))
}

// UUID returns the identifier as a UUID, for use as a query argument.
func (id ID) UUID() uuid.UUID {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil
	}
	return u
}

func (id ID) String() string { return string(id) }

// DocumentURI is the item's document (graph) URI under root.
func (id ID) DocumentURI(root string) string {
	return strings.TrimRight(root, "/") + "/" + string(id)
}

// URI is the item's subject URI under root: <root>/<id>#id.
func (id ID) URI(root string) string {
	return id.DocumentURI(root) + "#" + Fragment
}

// FromURI finds an identifier among the path segments of uri. The last
// segment that normalizes wins.
func FromURI(uri string) (ID, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return "", false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if id, err := Parse(segs[i]); err == nil {
			return id, true
		}
	}
	return "", false
}

// Local resolves s to a local subject URI. A bare identifier, or a URI
// carrying one as a path segment, becomes <root>/<id>#id; anything else is
// returned unchanged.
func Local(root, s string) string {
	if id, err := Parse(s); err == nil {
		return id.URI(root)
	}
	if strings.Contains(s, "://") {
		if id, ok := FromURI(s); ok {
			return id.URI(root)
		}
	}
	return s
}

// IsItemPath reports whether the first segment of path is exactly 32
// alphanumeric characters, which is how item requests are recognized before
// the identifier itself is validated.
func IsItemPath(path string) bool {
	p := strings.TrimLeft(path, "/")
	if p == "" {
		return false
	}
	n := 0
	for n < len(p) && isAlnum(p[n]) {
		n++
	}
	if n < len(p) && p[n] != '/' {
		return false
	}
	return n == Length
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
