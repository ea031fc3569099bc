package questionui

import (
	"fmt"
	"math/rand"

	"github.com/mind-engage/questionui/internal/xmltree"
)

// renderState is what the passes of one render call share.
type renderState struct {
	doc      *Document
	root     *xmltree.Node
	response Response
	opts     *DisplayOptions
	rng      *rand.Rand
}

type pass struct {
	name string
	run  func(*renderState) error
}

// pipeline is order-significant: placeholders are resolved before anything
// else so their content is subject to the filters, inputs are hydrated
// before shuffling, and cleanup runs last because every earlier pass
// locates its targets through qpy markup.
var pipeline = [...]pass{
	{"resolve placeholders", resolvePlaceholders},
	{"hide unwanted feedback", hideUnwantedFeedback},
	{"hide if role", hideIfRole},
	{"set input values and readonly", setInputValuesAndReadonly},
	{"soften validation", softenValidation},
	{"defuse buttons", defuseButtons},
	{"shuffle contents", shuffleContents},
	{"add styles", addStyles},
	{"format floats", formatFloats},
	{"clean up", cleanUp},
}

// RenderPart renders one part of the question. It fails with
// ErrFormulationElementMissing when the document has no formulation, even if
// another part is requested. A missing optional part yields ok == false and
// no error.
//
// response holds the values of a previous submission and may be nil. opts may
// be nil, which disables feedback and role filtering and readonly mode.
func (d *Document) RenderPart(part Part, response Response, opts *DisplayOptions) (html string, ok bool, err error) {
	if d.find(PartFormulation) == nil {
		return "", false, ErrFormulationElementMissing
	}
	if _, known := ParsePart(string(part)); !known {
		return "", false, fmt.Errorf("unknown question ui part %q", part)
	}
	el := d.find(part)
	if el == nil {
		return "", false, nil
	}

	root := xmltree.NewElement(XHTMLNamespace, "div")
	root.MoveChildren(el.Clone())

	st := &renderState{doc: d, root: root, response: response, opts: opts}
	for _, p := range pipeline {
		if err := p.run(st); err != nil {
			return "", false, fmt.Errorf("render %s: %s: %w", part, p.name, err)
		}
	}

	html = xmltree.RenderString(root, XHTMLNamespace)
	d.log.Debug("rendered question ui part", "part", part, "bytes", len(html))
	return html, true, nil
}

// RenderFormulation renders the mandatory qpy:formulation part.
func (d *Document) RenderFormulation(response Response, opts *DisplayOptions) (string, error) {
	html, _, err := d.RenderPart(PartFormulation, response, opts)
	return html, err
}

func (d *Document) RenderGeneralFeedback(response Response, opts *DisplayOptions) (string, bool, error) {
	return d.RenderPart(PartGeneralFeedback, response, opts)
}

func (d *Document) RenderSpecificFeedback(response Response, opts *DisplayOptions) (string, bool, error) {
	return d.RenderPart(PartSpecificFeedback, response, opts)
}

func (d *Document) RenderRightAnswer(response Response, opts *DisplayOptions) (string, bool, error) {
	return d.RenderPart(PartRightAnswer, response, opts)
}
