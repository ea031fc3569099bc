// Package xmltree is a small namespace-aware, mutable XML tree.
//
// Nodes are linked the same way golang.org/x/net/html links its nodes: every
// node knows its parent and siblings, so text that follows an element (its
// "tail") is simply the next sibling and survives when the element is
// replaced.
package xmltree

import (
	"errors"
	"strings"
)

// XMLNamespace is the namespace bound to the reserved "xml" prefix.
const XMLNamespace = "http://www.w3.org/XML/1998/namespace"

// ErrNotElement is returned when an element-only operation is called on
// another kind of node.
var ErrNotElement = errors.New("xmltree: node is not an element")

type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
	ProcInstNode
)

// Attr is a namespace-qualified attribute. Space holds the namespace URI;
// Prefix is the prefix it was written with, if known.
type Attr struct {
	Space  string
	Prefix string
	Local  string
	Value  string
}

// Node is an element, text, comment or processing instruction.
//
// For elements Space/Local are the qualified name. For processing
// instructions Local is the target and Data the instruction. For text and
// comments Data is the content.
type Node struct {
	Type  NodeType
	Space string
	Local string
	Data  string
	Attr  []Attr

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

func NewElement(space, local string) *Node {
	return &Node{Type: ElementNode, Space: space, Local: local}
}

func NewText(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

// Is reports whether n is an element with the given qualified name.
func (n *Node) Is(space, local string) bool {
	return n.Type == ElementNode && n.Space == space && n.Local == local
}

// AppendChild adds c as the last child of n. c must be detached.
func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("xmltree: AppendChild called for an attached child Node")
	}
	last := n.LastChild
	if last != nil {
		last.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
	c.Parent = n
	c.PrevSibling = last
}

// InsertBefore inserts c as a child of n immediately before ref, or last
// when ref is nil. c must be detached.
func (n *Node) InsertBefore(c, ref *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("xmltree: InsertBefore called for an attached child Node")
	}
	if ref == nil {
		n.AppendChild(c)
		return
	}
	prev := ref.PrevSibling
	if prev != nil {
		prev.NextSibling = c
	} else {
		n.FirstChild = c
	}
	ref.PrevSibling = c
	c.Parent = n
	c.PrevSibling = prev
	c.NextSibling = ref
}

// RemoveChild detaches c, which must be a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c.Parent != n {
		panic("xmltree: RemoveChild called for a non-child Node")
	}
	if n.FirstChild == c {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	}
	if n.LastChild == c {
		n.LastChild = c.PrevSibling
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	}
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

// Detach removes n from its parent, if any. The subtree below n stays intact.
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceWith puts nodes where n is and detaches n. Siblings of n, including
// trailing text, are left untouched.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.Parent
	if p == nil {
		return
	}
	for _, r := range nodes {
		p.InsertBefore(r, n)
	}
	p.RemoveChild(n)
}

// MoveChildren moves every child of src to the end of n, preserving order.
func (n *Node) MoveChildren(src *Node) {
	for c := src.FirstChild; c != nil; {
		next := c.NextSibling
		src.RemoveChild(c)
		n.AppendChild(c)
		c = next
	}
}

// Children returns a snapshot of the direct children of n.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ChildElements returns a snapshot of the direct element children of n.
func (n *Node) ChildElements() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Find returns, in document order, every descendant of n (n excluded) for
// which match returns true. The result is a snapshot: mutating the tree does
// not change it.
func (n *Node) Find(match func(*Node) bool) ([]*Node, error) {
	if n.Type != ElementNode {
		return nil, ErrNotElement
	}
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out, nil
}

// FindFirst returns the first descendant of n matching match, or nil.
func (n *Node) FindFirst(match func(*Node) bool) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if d := c.FindFirst(match); d != nil {
			return d
		}
	}
	return nil
}

// Contains reports whether d is n or one of its descendants.
func (n *Node) Contains(d *Node) bool {
	for p := d; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Text returns the concatenated text of every text descendant of n.
func (n *Node) Text() string {
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case TextNode:
				b.WriteString(c.Data)
			case ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// SetText replaces every child of n with a single text node.
func (n *Node) SetText(s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(NewText(s))
}

// Clone returns a deep, detached copy of n.
func (n *Node) Clone() *Node {
	m := &Node{Type: n.Type, Space: n.Space, Local: n.Local, Data: n.Data}
	if len(n.Attr) > 0 {
		m.Attr = make([]Attr, len(n.Attr))
		copy(m.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		m.AppendChild(c.Clone())
	}
	return m
}
