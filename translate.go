package openapifix

// Translate rewrites placeholder tokens throughout the tree using a flat
// dictionary and returns a new tree; the input is left untouched. Mapping keys
// and scalar strings present in dict are replaced by their value; everything
// else passes through. Values under a replaced key are still rewritten.
// Structural shape (key count, sequence length, nesting depth) is invariant.
//
// Translate keeps no state across calls, so disjoint dictionaries may be
// applied in sequence.
func Translate(n *Node, dict map[string]string) *Node {
	if n == nil || len(dict) == 0 {
		return n.Clone()
	}
	return translate(n, dict)
}

func translate(n *Node, dict map[string]string) *Node {
	switch n.kind {
	case KindMapping:
		out := NewMapping()
		for _, e := range n.entries {
			key := e.key
			if repl, ok := dict[key]; ok {
				key = repl
			}
			out.Set(key, translate(e.value, dict))
		}
		return out
	case KindSequence:
		items := make([]*Node, len(n.items))
		for i, it := range n.items {
			items[i] = translate(it, dict)
		}
		return NewSequence(items...)
	default:
		if s, ok := n.value.(string); ok {
			if repl, ok := dict[s]; ok {
				return String(repl)
			}
		}
		return n.Clone()
	}
}
