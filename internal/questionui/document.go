// Package questionui renders question UI documents: XHTML mixed with
// qpy-namespace markers for placeholders, feedback, roles, shuffling and
// number formatting. Each part of a question is turned into a plain XHTML
// fragment by a fixed sequence of passes, and the same document yields the
// metadata graders need.
package questionui

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/mind-engage/questionui/internal/sanitize"
	"github.com/mind-engage/questionui/internal/xmltree"
)

// Document is a parsed question UI. It is never mutated after Parse; every
// render works on a copy of the requested part, so one Document may be
// rendered from several goroutines.
type Document struct {
	source       *xmltree.Node
	placeholders map[string]string
	seed         *int64

	sanitizer    sanitize.Sanitizer
	thousandsSep string
	decimalSep   string
	log          *slog.Logger
}

type Option func(*Document)

// WithSeed fixes the shuffle order. Zero is a valid seed. Without a seed
// every render draws a fresh one.
func WithSeed(seed int64) Option {
	return func(d *Document) { d.seed = &seed }
}

func WithSanitizer(s sanitize.Sanitizer) Option {
	return func(d *Document) { d.sanitizer = s }
}

// WithSeparators sets the strings used by qpy:format-float. Empty values
// keep the defaults "," and ".".
func WithSeparators(thousands, decimal string) Option {
	return func(d *Document) {
		if thousands != "" {
			d.thousandsSep = thousands
		}
		if decimal != "" {
			d.decimalSep = decimal
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.log = l }
}

// Parse parses a question UI. placeholders maps placeholder keys to raw
// values; it is copied.
func Parse(xml string, placeholders map[string]string, opts ...Option) (*Document, error) {
	root, err := xmltree.ParseString(xml)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	d := &Document{
		source:       root,
		placeholders: maps.Clone(placeholders),
		sanitizer:    sanitize.Default(),
		thousandsSep: ",",
		decimalSep:   ".",
		log:          slog.Default(),
	}
	if d.placeholders == nil {
		d.placeholders = map[string]string{}
	}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Seed returns the shuffle seed, if one was set.
func (d *Document) Seed() (int64, bool) {
	if d.seed == nil {
		return 0, false
	}
	return *d.seed, true
}

// HasPart reports whether the document contains the given part.
func (d *Document) HasPart(p Part) bool {
	return d.find(p) != nil
}

// find returns the first qpy element named after p below the document
// element.
func (d *Document) find(p Part) *xmltree.Node {
	local := string(p)
	return d.source.FindFirst(func(n *xmltree.Node) bool { return n.Is(QPYNamespace, local) })
}
