package questionui

import "github.com/mind-engage/questionui/internal/xmltree"

// Metadata extracts correct responses, expected fields and required fields
// from the formulation. Missing attributes are skipped, never reported.
func (d *Document) Metadata() Metadata {
	m := Metadata{
		CorrectResponse: map[string]string{},
		ExpectedData:    map[string]string{},
		RequiredFields:  []string{},
	}
	f := d.find(PartFormulation)
	if f == nil {
		return m
	}

	keyed, _ := f.Find(func(n *xmltree.Node) bool {
		return n.Type == xmltree.ElementNode && n.Has(QPYNamespace, "correct-response")
	})
	for _, el := range keyed {
		name := el.GetOr("", "name", "")
		if name == "" {
			continue
		}
		var value string
		if el.Is(XHTMLNamespace, "input") && el.GetOr("", "type", "") == "radio" {
			value = el.GetOr("", "value", "")
		} else {
			value = el.GetOr(QPYNamespace, "correct-response", "")
		}
		if value == "" {
			continue
		}
		m.CorrectResponse[name] = value
	}

	for _, local := range []string{"input", "select", "textarea", "button"} {
		controls, _ := f.Find(func(n *xmltree.Node) bool { return n.Is(XHTMLNamespace, local) })
		for _, el := range controls {
			name := el.GetOr("", "name", "")
			if name == "" {
				continue
			}
			m.ExpectedData[name] = "Any"
			if el.Has("", "required") {
				m.RequiredFields = append(m.RequiredFields, name)
			}
		}
	}
	return m
}
