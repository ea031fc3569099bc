package attempt

import (
	"maps"
	"time"

	"github.com/mind-engage/questionui/internal/grading"
	"github.com/mind-engage/questionui/internal/questionui"
)

type Status string

const (
	StatusStarted Status = "started"
	StatusScored  Status = "scored"
)

// UI is the question UI an attempt renders, as produced by a question
// package.
type UI struct {
	Content      string            `json:"content" yaml:"content"`
	Placeholders map[string]string `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}

type Attempt struct {
	ID         string                    `json:"id"`
	QuestionID string                    `json:"question_id"`
	UI         UI                        `json:"ui"`
	Seed       int64                     `json:"seed"`
	Status     Status                    `json:"status"`
	Response   questionui.Response       `json:"response,omitempty"`
	Options    questionui.DisplayOptions `json:"options"`
	Score      *grading.Score            `json:"score,omitempty"`
	StartedAt  time.Time                 `json:"started_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// clone copies the maps of a so stores never share state with callers.
func (a Attempt) clone() Attempt {
	a.UI.Placeholders = maps.Clone(a.UI.Placeholders)
	a.Response = maps.Clone(a.Response)
	a.Options.Context = maps.Clone(a.Options.Context)
	if a.Score != nil {
		s := *a.Score
		s.Fields = maps.Clone(s.Fields)
		s.Missing = append([]string(nil), s.Missing...)
		a.Score = &s
	}
	return a
}

// View is an attempt rendered for display. Feedback parts are empty unless
// the attempt is scored and the matching display option is on.
type View struct {
	Attempt          Attempt `json:"attempt"`
	Formulation      string  `json:"formulation"`
	GeneralFeedback  string  `json:"general_feedback,omitempty"`
	SpecificFeedback string  `json:"specific_feedback,omitempty"`
	RightAnswer      string  `json:"right_answer,omitempty"`
	FormDisabled     bool    `json:"form_disabled"`
}
