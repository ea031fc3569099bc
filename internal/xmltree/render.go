package xmltree

import (
	"fmt"
	"io"
	"strings"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#10;", "\r", "&#13;", "\t", "&#9;")
)

// RenderString serializes n as XHTML. Element names are written without
// prefixes; the root element declares defaultSpace (if not empty) as the
// default namespace. Attributes in a namespace keep a prefix, declared on the
// element that carries them. Void elements without children are self-closed,
// every other element gets an explicit end tag.
func RenderString(n *Node, defaultSpace string) string {
	var b strings.Builder
	render(&b, n, defaultSpace)
	return b.String()
}

// Render writes RenderString(n, defaultSpace) to w.
func Render(w io.Writer, n *Node, defaultSpace string) error {
	_, err := io.WriteString(w, RenderString(n, defaultSpace))
	return err
}

func render(b *strings.Builder, n *Node, xmlns string) {
	switch n.Type {
	case TextNode:
		textEscaper.WriteString(b, n.Data)
	case CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case ProcInstNode:
		b.WriteString("<?")
		b.WriteString(n.Local)
		if n.Data != "" {
			b.WriteByte(' ')
			b.WriteString(n.Data)
		}
		b.WriteString("?>")
	case ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Local)
		if xmlns != "" {
			b.WriteString(` xmlns="`)
			attrEscaper.WriteString(b, xmlns)
			b.WriteByte('"')
		}
		prefixes := attrPrefixes(n.Attr)
		for i, a := range n.Attr {
			if a.Space == "" || a.Space == XMLNamespace || declaredBefore(n.Attr[:i], a.Space) {
				continue
			}
			b.WriteString(" xmlns:")
			b.WriteString(prefixes[a.Space])
			b.WriteString(`="`)
			attrEscaper.WriteString(b, a.Space)
			b.WriteByte('"')
		}
		for _, a := range n.Attr {
			b.WriteByte(' ')
			if a.Space != "" {
				b.WriteString(prefixes[a.Space])
				b.WriteByte(':')
			}
			b.WriteString(a.Local)
			b.WriteString(`="`)
			attrEscaper.WriteString(b, a.Value)
			b.WriteByte('"')
		}
		if n.FirstChild == nil && voidElements[n.Local] {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(b, c, "")
		}
		b.WriteString("</")
		b.WriteString(n.Local)
		b.WriteByte('>')
	}
}

// attrPrefixes picks one prefix per attribute namespace of an element: the
// prefix the attribute was parsed with when it is free, ns0, ns1, ...
// otherwise.
func attrPrefixes(attrs []Attr) map[string]string {
	prefixes := map[string]string{XMLNamespace: "xml"}
	used := map[string]bool{"xml": true, "xmlns": true}
	var pending []string
	for _, a := range attrs {
		if a.Space == "" {
			continue
		}
		if _, ok := prefixes[a.Space]; ok {
			continue
		}
		if a.Prefix == "" || used[a.Prefix] {
			prefixes[a.Space] = ""
			pending = append(pending, a.Space)
			continue
		}
		prefixes[a.Space] = a.Prefix
		used[a.Prefix] = true
	}
	n := 0
	for _, space := range pending {
		p := fmt.Sprintf("ns%d", n)
		for used[p] {
			n++
			p = fmt.Sprintf("ns%d", n)
		}
		prefixes[space] = p
		used[p] = true
	}
	return prefixes
}

func declaredBefore(attrs []Attr, space string) bool {
	for _, a := range attrs {
		if a.Space == space {
			return true
		}
	}
	return false
}
