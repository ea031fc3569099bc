package xmltree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTMLFragment parses s the way a browser parses the inner HTML of a
// <body> and returns the resulting top-level nodes, detached, with every
// element placed in namespace space. The HTML parser never fails on bad
// markup, so neither does this.
func ParseHTMLFragment(s, space string) ([]*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(nodes))
	for _, hn := range nodes {
		if n := fromHTML(hn, space); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func fromHTML(hn *html.Node, space string) *Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.CommentNode:
		return &Node{Type: CommentNode, Data: hn.Data}
	case html.ElementNode:
		el := NewElement(space, hn.Data)
		for _, a := range hn.Attr {
			if a.Namespace != "" {
				// foreign attributes (xlink, xml) on svg/math content
				continue
			}
			el.Attr = append(el.Attr, Attr{Local: a.Key, Value: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if n := fromHTML(c, space); n != nil {
				if n.Type == TextNode {
					appendText(el, n.Data)
					continue
				}
				el.AppendChild(n)
			}
		}
		return el
	default:
		return nil
	}
}
