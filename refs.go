package openapifix

// RefKey is the mapping key that marks a reference pointer.
const RefKey = "$ref"

// SchemaRefPrefix is the container prefix for schema registry pointers.
const SchemaRefPrefix = "#/components/schemas/"

// RewriteRefs rewrites every $ref whose value starts with prefix and whose
// trailing identifier appears in rm, returning the number of pointers
// rewritten. Pointers outside the prefix, or naming identifiers not in rm,
// are untouched. An empty map is a no-op with count 0, so re-invocation after
// a clean rename costs nothing.
func RewriteRefs(root *Node, prefix string, rm RenameMap) int {
	if len(rm) == 0 {
		return 0
	}
	count := 0
	var visit func(n *Node)
	visit = func(n *Node) {
		switch n.kind {
		case KindMapping:
			for _, e := range n.entries {
				if e.key == RefKey {
					ref, ok := e.value.StringValue()
					if !ok {
						continue
					}
					ident, ok := CutRefPrefix(ref, prefix)
					if !ok {
						continue
					}
					if newName, hit := rm[ident]; hit {
						n.Set(RefKey, String(JoinRef(prefix, newName)))
						count++
					}
					continue
				}
				visit(e.value)
			}
		case KindSequence:
			for _, it := range n.items {
				visit(it)
			}
		}
	}
	visit(root)
	return count
}

// CollectRefs gathers every $ref string value in the tree, in document order.
func CollectRefs(root *Node) []string {
	var refs []string
	Walk(root, func(_ string, n *Node) bool {
		if !n.IsMapping() {
			return true
		}
		if v, ok := n.Get(RefKey); ok {
			if s, isStr := v.StringValue(); isStr {
				refs = append(refs, s)
			}
		}
		return true
	})
	return refs
}

// ValidateRefs returns every $ref under prefix whose trailing identifier is
// not accepted by resolvable. An empty result means the document's pointers
// under that container are closed; callers treat anything else as a
// *BrokenReferenceError and must not persist the document.
func ValidateRefs(root *Node, prefix string, resolvable func(string) bool) []string {
	var dangling []string
	for _, ref := range CollectRefs(root) {
		ident, ok := CutRefPrefix(ref, prefix)
		if !ok {
			continue
		}
		if !resolvable(ident) {
			dangling = append(dangling, ref)
		}
	}
	return dangling
}

// ContainerKeySet builds a resolvable predicate from the mapping at
// containerPath. A missing container resolves nothing.
func ContainerKeySet(doc *Node, containerPath ...string) func(string) bool {
	keys := map[string]bool{}
	if container, ok := Lookup(doc, containerPath...); ok && container.IsMapping() {
		for _, k := range container.Keys() {
			keys[k] = true
		}
	}
	return func(ident string) bool { return keys[ident] }
}
