package openapifix

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Kind discriminates the three node shapes of a document tree.
type Kind int

const (
	KindMapping Kind = iota
	KindSequence
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

type mapEntry struct {
	key   string
	value *Node
}

// Node is one element of the document tree: an order-preserving Mapping, a
// Sequence, or a Scalar (string, json.Number, bool, or nil). Ownership is
// strictly hierarchical; $ref pointers are plain scalar strings and are never
// dereferenced by generic traversal.
type Node struct {
	kind    Kind
	entries []mapEntry
	index   map[string]int
	items   []*Node
	value   any
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{kind: KindMapping, index: map[string]int{}}
}

// NewSequence returns a sequence node holding the given items.
func NewSequence(items ...*Node) *Node {
	return &Node{kind: KindSequence, items: items}
}

// String returns a string scalar node.
func String(s string) *Node { return &Node{kind: KindScalar, value: s} }

// Number returns a number scalar node.
func Number(n json.Number) *Node { return &Node{kind: KindScalar, value: n} }

// Bool returns a boolean scalar node.
func Bool(b bool) *Node { return &Node{kind: KindScalar, value: b} }

// Null returns a null scalar node.
func Null() *Node { return &Node{kind: KindScalar, value: nil} }

// Kind reports the node's shape.
func (n *Node) Kind() Kind { return n.kind }

// IsMapping reports whether the node is a mapping.
func (n *Node) IsMapping() bool { return n != nil && n.kind == KindMapping }

// IsSequence reports whether the node is a sequence.
func (n *Node) IsSequence() bool { return n != nil && n.kind == KindSequence }

// IsScalar reports whether the node is a scalar.
func (n *Node) IsScalar() bool { return n != nil && n.kind == KindScalar }

// Value returns the underlying scalar value (string, json.Number, bool, or
// nil). It is only meaningful for scalar nodes.
func (n *Node) Value() any { return n.value }

// StringValue returns the scalar string value, if the node is a string scalar.
func (n *Node) StringValue() (string, bool) {
	if n == nil || n.kind != KindScalar {
		return "", false
	}
	s, ok := n.value.(string)
	return s, ok
}

// Len returns the number of keys (mapping) or items (sequence); 0 for scalars.
func (n *Node) Len() int {
	switch n.kind {
	case KindMapping:
		return len(n.entries)
	case KindSequence:
		return len(n.items)
	}
	return 0
}

// Keys returns the mapping keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	ks := make([]string, len(n.entries))
	for i, e := range n.entries {
		ks[i] = e.key
	}
	return ks
}

// Has reports whether the mapping contains the key.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != KindMapping {
		return false
	}
	_, ok := n.index[key]
	return ok
}

// Get returns the child bound to key in a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != KindMapping {
		return nil, false
	}
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.entries[i].value, true
}

// Set binds key to v. An existing key is overwritten in place, preserving its
// position; a new key is appended. The relative order of untouched keys never
// changes.
func (n *Node) Set(key string, v *Node) {
	if n.kind != KindMapping {
		panic(fmt.Sprintf("openapifix: Set on %s node", n.kind))
	}
	if i, ok := n.index[key]; ok {
		n.entries[i].value = v
		return
	}
	n.index[key] = len(n.entries)
	n.entries = append(n.entries, mapEntry{key: key, value: v})
}

// Delete removes key from the mapping, preserving the order of the remaining
// entries. It reports whether the key was present.
func (n *Node) Delete(key string) bool {
	if n == nil || n.kind != KindMapping {
		return false
	}
	i, ok := n.index[key]
	if !ok {
		return false
	}
	n.entries = append(n.entries[:i], n.entries[i+1:]...)
	delete(n.index, key)
	for j := i; j < len(n.entries); j++ {
		n.index[n.entries[j].key] = j
	}
	return true
}

// Rename moves the child bound to oldKey under newKey, appending newKey at
// the end and deleting oldKey. It reports whether oldKey was present.
// Renaming onto an existing key is the caller's collision to detect; Rename
// overwrites silently.
func (n *Node) Rename(oldKey, newKey string) bool {
	v, ok := n.Get(oldKey)
	if !ok {
		return false
	}
	n.Delete(oldKey)
	n.Set(newKey, v)
	return true
}

// Items returns the sequence's items. The returned slice is the node's own
// backing storage; callers mutate it through Append/Filter instead.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindSequence {
		return nil
	}
	return n.items
}

// Item returns the i-th sequence element.
func (n *Node) Item(i int) (*Node, bool) {
	if n == nil || n.kind != KindSequence || i < 0 || i >= len(n.items) {
		return nil, false
	}
	return n.items[i], true
}

// Append adds v at the end of the sequence.
func (n *Node) Append(v *Node) {
	if n.kind != KindSequence {
		panic(fmt.Sprintf("openapifix: Append on %s node", n.kind))
	}
	n.items = append(n.items, v)
}

// Filter removes every sequence element for which keep returns false and
// returns the number of elements removed. Order of kept elements is preserved.
func (n *Node) Filter(keep func(*Node) bool) int {
	if n == nil || n.kind != KindSequence {
		return 0
	}
	out := n.items[:0]
	removed := 0
	for _, it := range n.items {
		if keep(it) {
			out = append(out, it)
		} else {
			removed++
		}
	}
	n.items = out
	return removed
}

// ReplaceWith installs src's content into n in place, so callers holding the
// original pointer observe the new tree. Phases that build a replacement on a
// clone use this to publish the result only after validation passes.
func (n *Node) ReplaceWith(src *Node) {
	n.kind = src.kind
	n.entries = src.entries
	n.index = src.index
	n.items = src.items
	n.value = src.value
}

// Clone returns a structurally independent deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindMapping:
		out := NewMapping()
		for _, e := range n.entries {
			out.Set(e.key, e.value.Clone())
		}
		return out
	case KindSequence:
		items := make([]*Node, len(n.items))
		for i, it := range n.items {
			items[i] = it.Clone()
		}
		return NewSequence(items...)
	default:
		return &Node{kind: KindScalar, value: n.value}
	}
}

// Equal reports deep structural equality: same kinds, same keys in the same
// order, same items, same scalar values. Numbers compare by literal.
func (n *Node) Equal(m *Node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.kind != m.kind {
		return false
	}
	switch n.kind {
	case KindMapping:
		if len(n.entries) != len(m.entries) {
			return false
		}
		for i, e := range n.entries {
			o := m.entries[i]
			if e.key != o.key || !e.value.Equal(o.value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(n.items) != len(m.items) {
			return false
		}
		for i, it := range n.items {
			if !it.Equal(m.items[i]) {
				return false
			}
		}
		return true
	default:
		return n.value == m.value
	}
}

// FromGo converts plain Go values (map[string]any, []any, string, bool,
// json.Number, int, float64, nil) into a Node tree. Map keys are emitted in
// sorted order since Go maps carry none of their own.
func FromGo(v any) *Node {
	switch t := v.(type) {
	case nil:
		return Null()
	case *Node:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case json.Number:
		return Number(t)
	case int:
		return Number(json.Number(strconv.Itoa(t)))
	case int64:
		return Number(json.Number(strconv.FormatInt(t, 10)))
	case float64:
		return Number(json.Number(strconv.FormatFloat(t, 'g', -1, 64)))
	case []any:
		items := make([]*Node, len(t))
		for i, it := range t {
			items[i] = FromGo(it)
		}
		return NewSequence(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewMapping()
		for _, k := range keys {
			out.Set(k, FromGo(t[k]))
		}
		return out
	default:
		return String(fmt.Sprint(t))
	}
}

// ToGo converts a Node tree back into plain Go values. Mapping order is lost;
// use codec.EncodeJSON when order matters.
func (n *Node) ToGo() any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindMapping:
		out := make(map[string]any, len(n.entries))
		for _, e := range n.entries {
			out[e.key] = e.value.ToGo()
		}
		return out
	case KindSequence:
		out := make([]any, len(n.items))
		for i, it := range n.items {
			out[i] = it.ToGo()
		}
		return out
	default:
		return n.value
	}
}
