package questionui

import "errors"

var (
	// ErrFormulationElementMissing is returned by every render call on a
	// document without a qpy:formulation element.
	ErrFormulationElementMissing = errors.New("question ui contains no qpy:formulation element")

	// ErrMalformedDocument wraps XML syntax errors of the source document.
	ErrMalformedDocument = errors.New("question ui is not well-formed XML")

	// ErrUnexpectedQueryShape signals a broken structural invariant inside
	// the renderer (a programming error, not a content error).
	ErrUnexpectedQueryShape = errors.New("unexpected query shape")
)
