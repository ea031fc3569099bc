package questionui

import "github.com/mind-engage/questionui/internal/xmltree"

// controlType is the type attribute of an input (default "text") and the
// local name of every other form control.
func controlType(el *xmltree.Node) string {
	if el.Local == "input" {
		return el.GetOr("", "type", "text")
	}
	return el.Local
}

// setInputValuesAndReadonly disables every form control in readonly mode and
// restores the values of the previous response. It relies on the names as
// written by the author.
func setInputValuesAndReadonly(st *renderState) error {
	controls, err := scan(st.root, cFormControl)
	if err != nil {
		return err
	}
	readonly := st.opts != nil && st.opts.Readonly
	for _, el := range controls {
		if readonly {
			el.Set("", "disabled", "disabled")
		}
		name := el.GetOr("", "name", "")
		if name == "" || st.response == nil {
			continue
		}
		last, ok := st.response[name]
		if !ok {
			continue
		}

		switch controlType(el) {
		case "checkbox", "radio":
			if v, ok := el.Get("", "value"); ok && v == last {
				el.Set("", "checked", "checked")
			}
		case "select":
			selectOption(el, last)
		case "button", "submit", "hidden":
		default:
			el.Set("", "value", last)
		}
	}
	return nil
}

// selectOption marks the first option of sel whose value, or text when it
// has no value, equals value.
func selectOption(sel *xmltree.Node, value string) {
	options, _ := sel.Find(func(n *xmltree.Node) bool { return n.Is(XHTMLNamespace, "option") })
	for _, opt := range options {
		v, ok := opt.Get("", "value")
		if !ok {
			v = opt.Text()
		}
		if v == value {
			opt.Set("", "selected", "selected")
			return
		}
	}
}

// softenRule moves a native validation attribute to data-qpy_* (and ARIA)
// attributes so that the browser does not block submission and the
// question's scripts can validate instead.
type softenRule struct {
	attr     string
	elements []string
	targets  []string
	// fixed, when set, is written instead of the source value.
	fixed string
}

var softenRules = []softenRule{
	{attr: "pattern", elements: []string{"input"}, targets: []string{"data-qpy_pattern"}},
	{attr: "required", elements: []string{"input", "select", "textarea"},
		targets: []string{"data-qpy_required", "aria-required"}, fixed: "true"},
	{attr: "minlength", elements: []string{"input", "textarea"}, targets: []string{"data-qpy_minlength"}},
	{attr: "maxlength", elements: []string{"input", "textarea"}, targets: []string{"data-qpy_maxlength"}},
	{attr: "min", elements: []string{"input"}, targets: []string{"data-qpy_min", "aria-valuemin"}},
	{attr: "max", elements: []string{"input"}, targets: []string{"data-qpy_max", "aria-valuemax"}},
}

func softenValidation(st *renderState) error {
	controls, err := scan(st.root, cFormControl)
	if err != nil {
		return err
	}
	for _, rule := range softenRules {
		for _, el := range controls {
			if !rule.appliesTo(el) {
				continue
			}
			v, ok := el.Del("", rule.attr)
			if !ok {
				continue
			}
			if rule.fixed != "" {
				v = rule.fixed
			}
			if v == "" {
				continue
			}
			for _, t := range rule.targets {
				el.Set("", t, v)
			}
		}
	}
	return nil
}

func (r softenRule) appliesTo(el *xmltree.Node) bool {
	for _, local := range r.elements {
		if el.Local == local {
			return true
		}
	}
	return false
}

// defuseButtons turns submit and reset controls into plain buttons.
func defuseButtons(st *renderState) error {
	controls, err := scan(st.root, cFormControl)
	if err != nil {
		return err
	}
	for _, el := range controls {
		if el.Local != "input" && el.Local != "button" {
			continue
		}
		switch el.GetOr("", "type", "") {
		case "submit", "reset":
			el.Set("", "type", "button")
		}
	}
	return nil
}

// addStyles adds the CSS classes of the attempt page to form controls.
func addStyles(st *renderState) error {
	controls, err := scan(st.root, cFormControl)
	if err != nil {
		return err
	}
	for _, el := range controls {
		switch controlType(el) {
		case "checkbox", "radio":
			el.AddClass("qpy-input")
		case "button", "submit", "reset":
			el.AddClass("btn", "btn-primary", "qpy-input")
		default:
			el.AddClass("form-control", "qpy-input")
		}
	}
	return nil
}
