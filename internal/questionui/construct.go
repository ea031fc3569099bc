package questionui

import (
	"fmt"

	"github.com/mind-engage/questionui/internal/xmltree"
)

// construct is the closed set of markup the render passes act on. A node can
// carry several constructs at once (e.g. qpy:feedback and qpy:if-role).
type construct uint16

const (
	cPlaceholder     construct = 1 << iota // <?p key mode?>
	cFeedback                              // @qpy:feedback
	cIfRole                                // @qpy:if-role
	cShuffleContents                       // @qpy:shuffle-contents
	cShuffledIndex                         // <qpy:shuffled-index>
	cFormatFloat                           // <qpy:format-float>
	cControlElement                        // any element in the qpy namespace
	cFormControl                           // host button, input, select, textarea
)

func classify(n *xmltree.Node) construct {
	var c construct
	switch n.Type {
	case xmltree.ProcInstNode:
		if n.Local == "p" {
			c |= cPlaceholder
		}
		return c
	case xmltree.ElementNode:
	default:
		return c
	}

	switch n.Space {
	case QPYNamespace:
		c |= cControlElement
		switch n.Local {
		case "shuffled-index":
			c |= cShuffledIndex
		case "format-float":
			c |= cFormatFloat
		}
	case XHTMLNamespace:
		switch n.Local {
		case "button", "input", "select", "textarea":
			c |= cFormControl
		}
	}
	for _, a := range n.Attr {
		if a.Space != QPYNamespace {
			continue
		}
		switch a.Local {
		case "feedback":
			c |= cFeedback
		case "if-role":
			c |= cIfRole
		case "shuffle-contents":
			c |= cShuffleContents
		}
	}
	return c
}

// scan walks the descendants of root once and returns, in document order, the
// nodes carrying any construct in want. The result is a snapshot, so passes
// may mutate the tree while iterating it.
func scan(root *xmltree.Node, want construct) ([]*xmltree.Node, error) {
	nodes, err := root.Find(func(n *xmltree.Node) bool { return classify(n)&want != 0 })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedQueryShape, err)
	}
	return nodes, nil
}
