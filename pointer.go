package openapifix

import (
	"strconv"
	"strings"
)

// Path builds JSON Pointer paths in a chain-safe way for Walk callbacks and
// error reporting.
type Path struct {
	parts []string
}

// NewPath returns the root path.
func NewPath() Path { return Path{} }

// Field appends a mapping key, escaping '~' and '/' per RFC 6901.
func (p Path) Field(name string) Path {
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return Path{parts: append(append([]string{}, p.parts...), esc)}
}

// Index appends a sequence index.
func (p Path) Index(i int) Path {
	return Path{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Pointer renders the path as a JSON Pointer string.
func (p Path) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// CutRefPrefix splits a $ref value such as "#/components/schemas/BannerV1"
// into its trailing identifier, provided it starts with prefix. Identifiers
// never contain '/' in the documents this package edits, so no unescaping is
// performed.
func CutRefPrefix(ref, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, prefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// JoinRef builds a $ref value from a container prefix and an identifier.
func JoinRef(prefix, ident string) string { return prefix + ident }
