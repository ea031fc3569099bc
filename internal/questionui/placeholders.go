package questionui

import (
	"strings"

	"github.com/mind-engage/questionui/internal/xmltree"
)

type placeholderMode string

const (
	modeClean   placeholderMode = "clean"
	modeNoClean placeholderMode = "noclean"
	modePlain   placeholderMode = "plain"
)

const controlPrefix = "qpy:"

// resolvePlaceholders replaces <?p key [clean|noclean|plain]?> with the value
// of key. Unknown keys remove the instruction.
func resolvePlaceholders(st *renderState) error {
	pis, err := scan(st.root, cPlaceholder)
	if err != nil {
		return err
	}
	for _, pi := range pis {
		fields := strings.Fields(pi.Data)
		if len(fields) == 0 {
			continue
		}
		key, mode := fields[0], modeClean
		if len(fields) > 1 {
			mode = placeholderMode(strings.ToLower(fields[1]))
		}

		raw, ok := st.doc.placeholders[key]
		if !ok {
			st.doc.log.Debug("placeholder has no value", "key", key)
			pi.Detach()
			continue
		}
		nodes, err := st.doc.placeholderNodes(key, raw, mode)
		if err != nil {
			return err
		}
		pi.ReplaceWith(nodes...)
	}
	return nil
}

func (d *Document) placeholderNodes(key, raw string, mode placeholderMode) ([]*xmltree.Node, error) {
	var html string
	switch mode {
	case modeNoClean:
		html = raw
	case modeClean:
		html = d.sanitizer.Sanitize(raw)
	case modePlain:
		return []*xmltree.Node{xmltree.NewText(raw)}, nil
	default:
		d.log.Debug("unknown placeholder mode, inserting as plain text", "key", key, "mode", mode)
		return []*xmltree.Node{xmltree.NewText(raw)}, nil
	}

	nodes, err := xmltree.ParseHTMLFragment(html, XHTMLNamespace)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		adoptControlPrefix(n)
	}
	return nodes, nil
}

// adoptControlPrefix moves "qpy:"-prefixed element and attribute names, which
// the HTML parser keeps verbatim, into the qpy namespace so the later passes
// treat markers inside placeholder values like markers in the document.
func adoptControlPrefix(n *xmltree.Node) {
	if n.Type != xmltree.ElementNode {
		return
	}
	if local, ok := strings.CutPrefix(n.Local, controlPrefix); ok {
		n.Space, n.Local = QPYNamespace, local
	}
	for i := range n.Attr {
		if local, ok := strings.CutPrefix(n.Attr[i].Local, controlPrefix); ok && n.Attr[i].Space == "" {
			n.Attr[i].Space, n.Attr[i].Local = QPYNamespace, local
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		adoptControlPrefix(c)
	}
}
