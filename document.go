package openapifix

// Lookup walks mapping keys from the root and returns the node at the path.
// An empty path returns the root itself.
func Lookup(root *Node, path ...string) (*Node, bool) {
	cur := root
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// SetPath binds the final key of path to v, creating intermediate mappings as
// needed. Existing intermediates are reused; siblings are never disturbed.
func SetPath(root *Node, v *Node, path ...string) {
	if len(path) == 0 {
		panic("openapifix: SetPath with empty path")
	}
	parent := EnsureMapping(root, path[:len(path)-1]...)
	parent.Set(path[len(path)-1], v)
}

// EnsureMapping returns the mapping at path, creating empty mappings along the
// way without disturbing sibling keys. It panics when an existing node on the
// path is not a mapping; documents this package edits never have scalar nodes
// on injection paths.
func EnsureMapping(root *Node, path ...string) *Node {
	cur := root
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			next = NewMapping()
			cur.Set(key, next)
		}
		cur = next
	}
	return cur
}

// EnsureSequence returns the sequence bound to key under parent, creating an
// empty one when absent.
func EnsureSequence(parent *Node, key string) *Node {
	if seq, ok := parent.Get(key); ok && seq.IsSequence() {
		return seq
	}
	seq := NewSequence()
	parent.Set(key, seq)
	return seq
}

// Walk visits every node pre-order, passing a JSON Pointer for its location.
// Returning false from fn prunes descent below that node. The traversal is
// finite and restartable; it follows ownership edges only, never $ref values.
func Walk(root *Node, fn func(ptr string, n *Node) bool) {
	walk(NewPath(), root, fn)
}

func walk(at Path, n *Node, fn func(ptr string, n *Node) bool) {
	if n == nil {
		return
	}
	if !fn(at.Pointer(), n) {
		return
	}
	switch n.kind {
	case KindMapping:
		for _, e := range n.entries {
			walk(at.Field(e.key), e.value, fn)
		}
	case KindSequence:
		for i, it := range n.items {
			walk(at.Index(i), it, fn)
		}
	}
}

// Operation locates the operation node for (pathTemplate, verb) under the
// top-level paths mapping, e.g. Operation(doc, "/v1/{id}/brands", "get").
func Operation(doc *Node, pathTemplate, verb string) (*Node, bool) {
	op, ok := Lookup(doc, "paths", pathTemplate, verb)
	if !ok || !op.IsMapping() {
		return nil, false
	}
	return op, true
}

// httpVerbs are the method keys recognized inside a path item mapping.
var httpVerbs = map[string]bool{
	"get": true, "post": true, "put": true, "patch": true,
	"delete": true, "options": true, "head": true, "trace": true,
}

// IsHTTPVerb reports whether key names an operation inside a path item.
func IsHTTPVerb(key string) bool { return httpVerbs[key] }

// EachOperation visits every operation mapping under paths, in document
// order, passing the path template and verb.
func EachOperation(doc *Node, fn func(pathTemplate, verb string, op *Node)) {
	paths, ok := Lookup(doc, "paths")
	if !ok || !paths.IsMapping() {
		return
	}
	for _, tmpl := range paths.Keys() {
		item, _ := paths.Get(tmpl)
		if !item.IsMapping() {
			continue
		}
		for _, verb := range item.Keys() {
			if !IsHTTPVerb(verb) {
				continue
			}
			op, _ := item.Get(verb)
			if op.IsMapping() {
				fn(tmpl, verb, op)
			}
		}
	}
}
