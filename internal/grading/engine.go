package grading

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Kind selects the Strategy for a field.
type Kind string

const (
	KindChoice  Kind = "choice"
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
	KindManual  Kind = "manual"
)

// Q is a minimal view of one gradable field.
type Q struct {
	Kind      Kind
	Points    float64
	AnswerKey []string
}

// Result is the outcome of grading a single field.
type Result struct {
	AutoPoints  float64  `json:"auto_points"`
	MaxPoints   float64  `json:"max_points"`
	NeedsManual bool     `json:"needs_manual,omitempty"`
	Feedback    []string `json:"feedback,omitempty"`
}

// Strategy grades a single field.
type Strategy interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

// Key is what a question UI tells the grader: the correct value per field,
// the fields that must be answered, and optionally how to compare each one.
type Key struct {
	Correct  map[string]string
	Required []string
	Kinds    map[string]Kind
}

// Score sums the results of every keyed field of a response.
type Score struct {
	Points      float64           `json:"points"`
	MaxPoints   float64           `json:"max_points"`
	NeedsManual bool              `json:"needs_manual,omitempty"`
	Fields      map[string]Result `json:"fields"`
	Missing     []string          `json:"missing,omitempty"`
}

// Fraction is Points/MaxPoints, or 0 for an empty key.
func (s Score) Fraction() float64 {
	if s.MaxPoints == 0 {
		return 0
	}
	return s.Points / s.MaxPoints
}

// Grader routes by field kind to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
	GradeResponse(ctx context.Context, key Key, response map[string]string) (Score, error)
}

var ErrUnknownKind = errors.New("grading: no strategy for kind")

type defaultGrader struct {
	strategies map[Kind]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response string) (Result, error) {
	s, ok := g.strategies[q.Kind]
	if !ok {
		return Result{MaxPoints: q.Points, NeedsManual: true, Feedback: []string{"no strategy available"}},
			fmt.Errorf("%w %q", ErrUnknownKind, q.Kind)
	}
	return s.Grade(ctx, q, response)
}

// GradeResponse grades every field of key.Correct for one point each. Fields
// without an explicit kind are numeric when the key parses as a number and
// text otherwise. Unanswered required fields are listed in Score.Missing and
// score zero.
func (g *defaultGrader) GradeResponse(ctx context.Context, key Key, response map[string]string) (Score, error) {
	score := Score{Fields: make(map[string]Result, len(key.Correct))}

	names := make([]string, 0, len(key.Correct))
	for name := range key.Correct {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return score, err
		}
		q := Q{Kind: key.kindOf(name), Points: 1, AnswerKey: []string{key.Correct[name]}}
		res, err := g.Grade(ctx, q, response[name])
		if err != nil {
			return score, fmt.Errorf("grade %s: %w", name, err)
		}
		score.Fields[name] = res
		score.Points += res.AutoPoints
		score.MaxPoints += res.MaxPoints
		score.NeedsManual = score.NeedsManual || res.NeedsManual
	}

	for _, name := range key.Required {
		if strings.TrimSpace(response[name]) == "" && !slices.Contains(score.Missing, name) {
			score.Missing = append(score.Missing, name)
		}
	}
	return score, nil
}

func (k Key) kindOf(name string) Kind {
	if kind, ok := k.Kinds[name]; ok {
		return kind
	}
	if _, ok := parseNumber(k.Correct[name]); ok {
		return KindNumeric
	}
	return KindText
}

// Engine options

type Option func(*config)

type config struct {
	MaxEditDistance int  // for text fuzzy matching
	AllowPartial    bool // half credit for close text matches
}

func WithMaxEditDistance(n int) Option { return func(c *config) { c.MaxEditDistance = n } }
func WithPartial(b bool) Option        { return func(c *config) { c.AllowPartial = b } }

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{
		MaxEditDistance: 1,
		AllowPartial:    true,
	}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[Kind]Strategy{
			KindChoice:  choiceStrategy{},
			KindNumeric: numericStrategy{},
			KindText:    textStrategy{maxEdit: cfg.MaxEditDistance, allowPartial: cfg.AllowPartial},
			KindManual:  manualStrategy{},
		},
	}
}

// --- Strategies ---

// choiceStrategy accepts any of the keys verbatim (radio, select, checkbox).
type choiceStrategy struct{}

func (choiceStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	for _, k := range q.AnswerKey {
		if response == k {
			res.AutoPoints = q.Points
			return res, nil
		}
	}
	return res, nil
}

type textStrategy struct {
	maxEdit      int
	allowPartial bool
}

func (s textStrategy) Grade(_ context.Context, q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	normResp := normalize(response)
	if normResp == "" {
		return res, nil
	}

	near := false
	for _, k := range q.AnswerKey {
		nk := normalize(k)
		if nk == normResp {
			res.AutoPoints = q.Points
			return res, nil
		}
		if s.maxEdit > 0 && withinEdits(nk, normResp, s.maxEdit) {
			near = true
		}
	}
	if near && s.allowPartial {
		res.AutoPoints = q.Points * 0.5
		res.Feedback = append(res.Feedback, "close match (fuzzy)")
	}
	return res, nil
}

type manualStrategy struct{}

func (manualStrategy) Grade(_ context.Context, q Q, _ string) (Result, error) {
	return Result{MaxPoints: q.Points, NeedsManual: true, Feedback: []string{"manual grading required"}}, nil
}
