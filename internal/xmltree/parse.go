package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
)

var (
	// ErrNoRoot is returned for input without a document element.
	ErrNoRoot = errors.New("xmltree: document has no root element")
	// ErrUndeclaredPrefix is returned for a name whose prefix has no
	// namespace declaration in scope.
	ErrUndeclaredPrefix = errors.New("xmltree: undeclared namespace prefix")
)

// Parse reads a well-formed XML document and returns its document element.
//
// Namespace declarations are resolved and then dropped: every element and
// attribute carries its namespace URI, and the serializer decides which
// declarations to emit. Namespaced attributes remember their prefix. A prefix
// without a declaration in scope is an error. HTML named entities such as &nbsp; are accepted.
// Comments, text and processing instructions outside the document element
// are discarded.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	var root, cur *Node
	var scopes []scope
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			sc := newScope(scopes, t.Attr)
			scopes = append(scopes, sc)
			if !sc.resolved(t.Name.Space) {
				return nil, fmt.Errorf("%w: <%s:%s>", ErrUndeclaredPrefix, t.Name.Space, t.Name.Local)
			}
			el := NewElement(t.Name.Space, t.Name.Local)
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				if !sc.resolved(a.Name.Space) {
					return nil, fmt.Errorf("%w: attribute %s:%s", ErrUndeclaredPrefix, a.Name.Space, a.Name.Local)
				}
				el.Attr = append(el.Attr, Attr{Space: a.Name.Space, Prefix: sc[a.Name.Space], Local: a.Name.Local, Value: a.Value})
			}
			if cur == nil {
				if root != nil {
					return nil, fmt.Errorf("xmltree: second root element <%s>", t.Name.Local)
				}
				root = el
			} else {
				cur.AppendChild(el)
			}
			cur = el
		case xml.EndElement:
			if cur == nil {
				return nil, fmt.Errorf("xmltree: unexpected </%s>", t.Name.Local)
			}
			cur = cur.Parent
			scopes = scopes[:len(scopes)-1]
		case xml.CharData:
			if cur != nil {
				appendText(cur, string(t))
			}
		case xml.Comment:
			if cur != nil {
				cur.AppendChild(&Node{Type: CommentNode, Data: string(t)})
			}
		case xml.ProcInst:
			if cur != nil {
				cur.AppendChild(&Node{Type: ProcInstNode, Local: t.Target, Data: strings.TrimLeft(string(t.Inst), " \t\r\n")})
			}
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// ParseString is Parse for in-memory documents.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// scope maps the namespace URIs declared on an element and its ancestors to
// a prefix bound to them ("" for the default namespace).
type scope map[string]string

func newScope(outer []scope, attrs []xml.Attr) scope {
	sc := scope{XMLNamespace: "xml"}
	if len(outer) > 0 {
		sc = maps.Clone(outer[len(outer)-1])
	}
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns" && a.Value != "":
			sc[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns" && a.Value != "":
			if _, ok := sc[a.Value]; !ok {
				sc[a.Value] = ""
			}
		}
	}
	return sc
}

// resolved reports whether space is empty or a declared URI. The decoder
// leaves the raw prefix in place when it finds no declaration.
func (sc scope) resolved(space string) bool {
	if space == "" {
		return true
	}
	_, ok := sc[space]
	return ok
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}

// appendText merges adjacent character data (text and CDATA sections arrive
// as separate tokens) into one text node.
func appendText(parent *Node, s string) {
	if last := parent.LastChild; last != nil && last.Type == TextNode {
		last.Data += s
		return
	}
	parent.AppendChild(NewText(s))
}
