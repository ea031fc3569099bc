package questionui

import "github.com/mind-engage/questionui/internal/xmltree"

// cleanUp strips what is left of the qpy markup: control elements with their
// content, control attributes, comments and processing instructions. The
// remaining elements all end up in the XHTML namespace, so the serialized
// fragment declares a single default namespace and no prefixes.
func cleanUp(st *renderState) error {
	ctl, err := scan(st.root, cControlElement)
	if err != nil {
		return err
	}
	for _, n := range ctl {
		n.Detach()
	}

	rest, err := st.root.Find(func(*xmltree.Node) bool { return true })
	if err != nil {
		return err
	}
	for _, n := range rest {
		switch n.Type {
		case xmltree.CommentNode, xmltree.ProcInstNode:
			n.Detach()
		case xmltree.ElementNode:
			n.DelSpace(QPYNamespace)
			n.Space = XHTMLNamespace
		}
	}
	return nil
}
