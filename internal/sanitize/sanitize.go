// Package sanitize provides the HTML sanitizer used for "clean" placeholders.
package sanitize

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

type Policy string

const (
	// PolicyUGC keeps ordinary formatting markup (b, i, a, tables, images...)
	// and strips scripts, styles, event handlers and unsafe URLs.
	PolicyUGC Policy = "ugc"
	// PolicyStrict strips every element and keeps only text.
	PolicyStrict Policy = "strict"
)

// Sanitizer turns untrusted HTML into safe HTML. It must not have side
// effects.
type Sanitizer interface {
	Sanitize(html string) string
}

// New returns the bluemonday policy registered under name.
func New(name Policy) (Sanitizer, error) {
	switch name {
	case PolicyUGC, "":
		return bluemonday.UGCPolicy(), nil
	case PolicyStrict:
		return bluemonday.StrictPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown sanitizer policy: %s", name)
	}
}

// Default is the UGC policy.
func Default() Sanitizer {
	return bluemonday.UGCPolicy()
}

// Func adapts a plain function to Sanitizer.
type Func func(string) string

func (f Func) Sanitize(s string) string { return f(s) }
