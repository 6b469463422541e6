package openapifix

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalizer turns an invalid identifier into a valid one. Implementations
// must be deterministic; the renamer calls them exactly once per identifier.
type Normalizer interface {
	Normalize(name string) string
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(string) string

// Normalize calls f.
func (f NormalizerFunc) Normalize(name string) string { return f(name) }

// StripSpaces removes every space, e.g. "Banner V1" -> "BannerV1".
var StripSpaces = NormalizerFunc(func(name string) string {
	return strings.ReplaceAll(name, " ", "")
})

// CamelCase splits on whitespace and capitalizes each word, e.g.
// "banner v1" -> "BannerV1".
var CamelCase = NormalizerFunc(func(name string) string {
	words := strings.Fields(name)
	b := &strings.Builder{}
	for _, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(w[size:])
	}
	return b.String()
})

// SpacesInvalid selects identifiers containing embedded whitespace.
func SpacesInvalid(name string) bool { return strings.Contains(name, " ") }

// RenameMap maps old identifiers to their new names. It is injective and
// disjoint from every identifier that was not renamed; Rename enforces both
// before mutating anything.
type RenameMap map[string]string

// Rename renames every key of the mapping at containerPath for which
// isInvalid holds, using norm to compute new names. The full collision check
// runs before any mutation: if two selected keys normalize identically, or a
// new name equals an untouched sibling, Rename returns a *CollisionError and
// the document is unchanged. Renamed entries are re-appended; untouched keys
// keep their relative order.
//
// A missing container is not an error: there is nothing to rename and the
// returned map is empty. Rename performs no reference rewriting; pass the map
// to RewriteRefs.
func Rename(doc *Node, containerPath []string, isInvalid func(string) bool, norm Normalizer) (RenameMap, error) {
	container, ok := Lookup(doc, containerPath...)
	if !ok || !container.IsMapping() {
		return RenameMap{}, nil
	}

	type pair struct{ old, new string }
	var selected []pair
	for _, key := range container.Keys() {
		if isInvalid(key) {
			selected = append(selected, pair{old: key, new: norm.Normalize(key)})
		}
	}
	if len(selected) == 0 {
		return RenameMap{}, nil
	}

	// Collision check, completed before the first mutation.
	claimed := make(map[string]string, len(selected))
	for _, p := range selected {
		if first, dup := claimed[p.new]; dup {
			return nil, &CollisionError{Name: p.new, First: first, Conflict: p.old}
		}
		claimed[p.new] = p.old
	}
	renaming := make(map[string]bool, len(selected))
	for _, p := range selected {
		renaming[p.old] = true
	}
	for _, key := range container.Keys() {
		if renaming[key] {
			continue
		}
		if old, hit := claimed[key]; hit {
			return nil, &CollisionError{Name: key, Conflict: old}
		}
	}

	rm := make(RenameMap, len(selected))
	for _, p := range selected {
		container.Rename(p.old, p.new)
		rm[p.old] = p.new
	}
	return rm, nil
}
