package questionui

import "strings"

const (
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
	QPYNamespace   = "http://questionpy.org/ns/question"
)

// Part names one of the four renderable subtrees of a question UI.
type Part string

const (
	PartFormulation      Part = "formulation"
	PartGeneralFeedback  Part = "general-feedback"
	PartSpecificFeedback Part = "specific-feedback"
	PartRightAnswer      Part = "right-answer"
)

// Parts lists every part in render order.
var Parts = []Part{PartFormulation, PartGeneralFeedback, PartSpecificFeedback, PartRightAnswer}

// ParsePart accepts both the element name ("general-feedback") and the
// underscore spelling ("general_feedback").
func ParsePart(s string) (Part, bool) {
	p := Part(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, known := range Parts {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// FeedbackKind is the value of a qpy:feedback attribute.
type FeedbackKind string

const (
	FeedbackGeneral  FeedbackKind = "general"
	FeedbackSpecific FeedbackKind = "specific"
)

// RoleAdmin sees every qpy:if-role element.
const RoleAdmin = "admin"

// DisplayOptions controls which feedback is visible to the viewer and
// whether inputs can be edited.
type DisplayOptions struct {
	GeneralFeedback bool           `json:"general_feedback" yaml:"general_feedback"`
	Feedback        bool           `json:"feedback" yaml:"feedback"`
	RightAnswer     bool           `json:"right_answer" yaml:"right_answer"`
	Readonly        bool           `json:"readonly" yaml:"readonly"`
	Context         map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

// DefaultDisplayOptions shows all feedback and leaves inputs editable.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{GeneralFeedback: true, Feedback: true, RightAnswer: true}
}

// Role returns the viewer role stored under "role" in the context.
func (o *DisplayOptions) Role() (string, bool) {
	if o == nil || o.Context == nil {
		return "", false
	}
	r, ok := o.Context["role"].(string)
	return r, ok && r != ""
}

// Response maps input names to the values submitted in a previous step.
type Response map[string]string

// Metadata is what graders need to know about a question UI.
type Metadata struct {
	CorrectResponse map[string]string `json:"correct_response" yaml:"correct_response"`
	ExpectedData    map[string]string `json:"expected_data" yaml:"expected_data"`
	RequiredFields  []string          `json:"required_fields" yaml:"required_fields"`
}
