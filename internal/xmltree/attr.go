package xmltree

import "strings"

// Get returns the value of the attribute space:local.
func (n *Node) Get(space, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Space == space && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// GetOr returns the attribute value or def when it is absent.
func (n *Node) GetOr(space, local, def string) string {
	if v, ok := n.Get(space, local); ok {
		return v
	}
	return def
}

func (n *Node) Has(space, local string) bool {
	_, ok := n.Get(space, local)
	return ok
}

// Set overwrites an existing attribute in place or appends a new one.
func (n *Node) Set(space, local, value string) {
	for i := range n.Attr {
		if n.Attr[i].Space == space && n.Attr[i].Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, Attr{Space: space, Local: local, Value: value})
}

// Del removes the attribute and returns its previous value.
func (n *Node) Del(space, local string) (string, bool) {
	for i, a := range n.Attr {
		if a.Space == space && a.Local == local {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return a.Value, true
		}
	}
	return "", false
}

// DelSpace removes every attribute in the given namespace.
func (n *Node) DelSpace(space string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Space != space {
			out = append(out, a)
		}
	}
	n.Attr = out
}

// AddClass appends class names to the class attribute, skipping names that
// are already present.
func (n *Node) AddClass(names ...string) {
	classes := strings.Fields(n.GetOr("", "class", ""))
	for _, name := range names {
		found := false
		for _, c := range classes {
			if c == name {
				found = true
				break
			}
		}
		if !found {
			classes = append(classes, name)
		}
	}
	n.Set("", "class", strings.Join(classes, " "))
}
