package document

// pathTrie is the set of requested paths keyed by segment.
type pathTrie struct {
	leaf     bool
	children map[string]*pathTrie
}

func buildTrie(paths []Path) *pathTrie {
	root := &pathTrie{children: make(map[string]*pathTrie)}
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		n := root
		for _, seg := range p {
			c, ok := n.children[seg]
			if !ok {
				c = &pathTrie{children: make(map[string]*pathTrie)}
				n.children[seg] = c
			}
			n = c
		}
		n.leaf = true
	}
	return root
}

// Filter returns a document holding only the fields addressed by paths,
// nested as in doc. Paths that do not resolve are left out. With no paths
// the whole document is returned.
//
// Output fields follow the order of doc, so the order of paths never matters.
func Filter(doc Value, paths []Path) Value {
	if len(paths) == 0 {
		return doc
	}
	out, _ := filterNode(doc, buildTrie(paths))
	if out.IsNull() {
		return MapValue(nil)
	}
	return out
}

func filterNode(src Value, n *pathTrie) (Value, bool) {
	if !src.IsMap() {
		return Value{}, false
	}
	out := NewObject()
	for _, k := range src.obj.keys {
		child, ok := n.children[k]
		if !ok {
			continue
		}
		v := src.obj.fields[k]
		if child.leaf {
			// a requested prefix covers everything below it
			out.Set(k, v)
			continue
		}
		if sub, ok := filterNode(v, child); ok {
			out.Set(k, sub)
		}
	}
	if out.Len() == 0 {
		return Value{}, false
	}
	return MapValue(out), true
}
