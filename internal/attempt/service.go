// Package attempt runs a question UI through its lifecycle: an attempt is
// started with a seed, collects responses, is scored against the metadata
// of its UI and can be edited or restarted. Views render the parts the
// attempt's state and display options allow.
package attempt

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/questionui/internal/grading"
	"github.com/mind-engage/questionui/internal/questionui"
	syncx "github.com/mind-engage/questionui/internal/sync"
)

// EventLog receives one event per lifecycle transition.
type EventLog interface {
	Append(ctx context.Context, e syncx.Event) error
}

type Service struct {
	store       Store
	grader      grading.Grader
	events      EventLog
	log         *slog.Logger
	seeds       func() int64
	docOpts     []questionui.Option
	parallelism int
	now         func() time.Time
}

type ServiceOption func(*Service)

func WithGrader(g grading.Grader) ServiceOption { return func(s *Service) { s.grader = g } }
func WithEventLog(l EventLog) ServiceOption     { return func(s *Service) { s.events = l } }
func WithLogger(l *slog.Logger) ServiceOption   { return func(s *Service) { s.log = l } }
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithSeedSource replaces the default seed draw, a random number in [0, 10].
func WithSeedSource(f func() int64) ServiceOption { return func(s *Service) { s.seeds = f } }

// WithDocumentOptions are passed to questionui.Parse for every render.
func WithDocumentOptions(opts ...questionui.Option) ServiceOption {
	return func(s *Service) { s.docOpts = append(s.docOpts, opts...) }
}

// WithParallelism bounds how many parts View renders at once.
func WithParallelism(n int) ServiceOption { return func(s *Service) { s.parallelism = n } }

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:       store,
		grader:      grading.NewDefaultGrader(),
		log:         slog.Default(),
		seeds:       func() int64 { return rand.Int63n(11) },
		parallelism: 4,
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) document(ui UI, seed int64) (*questionui.Document, error) {
	opts := append([]questionui.Option{questionui.WithSeed(seed), questionui.WithLogger(s.log)}, s.docOpts...)
	return questionui.Parse(ui.Content, ui.Placeholders, opts...)
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Start validates ui and stores a new attempt for it.
func (s *Service) Start(ctx context.Context, questionID string, ui UI) (Attempt, error) {
	seed := s.seeds()
	doc, err := s.document(ui, seed)
	if err != nil {
		return Attempt{}, err
	}
	if !doc.HasPart(questionui.PartFormulation) {
		return Attempt{}, questionui.ErrFormulationElementMissing
	}

	now := s.timestamp()
	a := Attempt{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		UI:         UI{Content: ui.Content, Placeholders: maps.Clone(ui.Placeholders)},
		Seed:       seed,
		Status:     StatusStarted,
		Options:    questionui.DefaultDisplayOptions(),
		StartedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return Attempt{}, err
	}
	s.log.Info("attempt started", "attempt", a.ID, "question", questionID, "seed", seed)
	return a, s.emit(ctx, syncx.AttemptStarted, a)
}

// Save stores the last response of a started attempt.
func (s *Service) Save(ctx context.Context, id string, response questionui.Response) (Attempt, error) {
	return s.transition(ctx, id, syncx.AttemptSaved, func(a *Attempt) error {
		if a.Status == StatusScored {
			return ErrScored
		}
		a.Response = maps.Clone(response)
		return nil
	})
}

// Submit stores the response and scores it. The attempt becomes readonly.
func (s *Service) Submit(ctx context.Context, id string, response questionui.Response) (Attempt, error) {
	return s.transition(ctx, id, syncx.AttemptScored, func(a *Attempt) error {
		if a.Status == StatusScored {
			return ErrScored
		}
		a.Response = maps.Clone(response)
		return s.score(ctx, a)
	})
}

// Rescore grades the stored response of a scored attempt again, e.g. after
// the grader configuration changed.
func (s *Service) Rescore(ctx context.Context, id string) (Attempt, error) {
	return s.transition(ctx, id, syncx.AttemptScored, func(a *Attempt) error {
		if a.Status != StatusScored {
			return ErrNotScored
		}
		return s.score(ctx, a)
	})
}

// Edit drops the score so the response can be changed again.
func (s *Service) Edit(ctx context.Context, id string) (Attempt, error) {
	return s.transition(ctx, id, syncx.AttemptSaved, func(a *Attempt) error {
		if a.Status != StatusScored {
			return ErrNotScored
		}
		a.Status = StatusStarted
		a.Score = nil
		a.Options.Readonly = false
		return nil
	})
}

// Restart clears response and score and draws a new seed.
func (s *Service) Restart(ctx context.Context, id string) (Attempt, error) {
	return s.transition(ctx, id, syncx.AttemptRestarted, func(a *Attempt) error {
		a.Status = StatusStarted
		a.Response = nil
		a.Score = nil
		a.Seed = s.seeds()
		a.Options.Readonly = false
		return nil
	})
}

// SetDisplayOptions replaces the display options. Readonly follows the
// attempt status and cannot be set here.
func (s *Service) SetDisplayOptions(ctx context.Context, id string, opts questionui.DisplayOptions) (Attempt, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return Attempt{}, err
	}
	opts.Readonly = a.Status == StatusScored
	a.Options = opts
	a.UpdatedAt = s.timestamp()
	if err := s.store.Update(ctx, a); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Attempt, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Attempt, error) {
	return s.store.List(ctx, opts)
}

// View renders the attempt. A started attempt shows only its formulation,
// editable and without feedback. A scored attempt shows the formulation
// readonly together with every part its display options enable.
func (s *Service) View(ctx context.Context, id string) (View, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	doc, err := s.document(a.UI, a.Seed)
	if err != nil {
		return View{}, err
	}

	v := View{Attempt: a}
	opts := a.Options
	if a.Status != StatusScored {
		opts.GeneralFeedback, opts.Feedback, opts.RightAnswer, opts.Readonly = false, false, false, false
	} else {
		opts.Readonly = true
		v.FormDisabled = true
	}

	parts := []struct {
		part questionui.Part
		on   bool
		dst  *string
	}{
		{questionui.PartFormulation, true, &v.Formulation},
		{questionui.PartGeneralFeedback, opts.GeneralFeedback, &v.GeneralFeedback},
		{questionui.PartSpecificFeedback, opts.Feedback, &v.SpecificFeedback},
		{questionui.PartRightAnswer, opts.RightAnswer, &v.RightAnswer},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.parallelism, 1))
	for _, p := range parts {
		if !p.on {
			continue
		}
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			html, _, err := doc.RenderPart(p.part, a.Response, &opts)
			if err != nil {
				return err
			}
			*p.dst = html
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return View{}, fmt.Errorf("view attempt %s: %w", id, err)
	}
	return v, nil
}

func (s *Service) score(ctx context.Context, a *Attempt) error {
	doc, err := s.document(a.UI, a.Seed)
	if err != nil {
		return err
	}
	meta := doc.Metadata()
	score, err := s.grader.GradeResponse(ctx, grading.Key{
		Correct:  meta.CorrectResponse,
		Required: meta.RequiredFields,
	}, a.Response)
	if err != nil {
		return fmt.Errorf("score attempt %s: %w", a.ID, err)
	}
	a.Score = &score
	a.Status = StatusScored
	a.Options.Readonly = true
	return nil
}

// transition loads an attempt, applies mutate, stores the result and records
// typ in the event log.
func (s *Service) transition(ctx context.Context, id, typ string, mutate func(*Attempt) error) (Attempt, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return Attempt{}, err
	}
	if err := mutate(&a); err != nil {
		return Attempt{}, err
	}
	a.UpdatedAt = s.timestamp()
	if err := s.store.Update(ctx, a); err != nil {
		return Attempt{}, err
	}
	s.log.Info("attempt transition", "attempt", a.ID, "event", typ, "status", a.Status)
	return a, s.emit(ctx, typ, a)
}

func (s *Service) emit(ctx context.Context, typ string, a Attempt) error {
	if s.events == nil {
		return nil
	}
	payload := struct {
		Status   Status              `json:"status"`
		Seed     int64               `json:"seed"`
		Response questionui.Response `json:"response,omitempty"`
		Score    *grading.Score      `json:"score,omitempty"`
	}{a.Status, a.Seed, a.Response, a.Score}
	e, err := syncx.NewEvent(typ, a.ID, payload)
	if err != nil {
		return err
	}
	if err := s.events.Append(ctx, e); err != nil {
		return fmt.Errorf("append %s event: %w", typ, err)
	}
	return nil
}
