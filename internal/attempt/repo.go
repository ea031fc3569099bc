package attempt

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("attempt not found")
	ErrExists    = errors.New("attempt already exists")
	ErrScored    = errors.New("attempt already scored")
	ErrNotScored = errors.New("attempt not scored")
)

type ListOpts struct {
	QuestionID string // filter by question
	Status     Status // optional: started|scored
	Limit      int
	Offset     int
}

// Store persists attempts. Implementations return copies: mutating a
// returned Attempt never changes the stored one.
type Store interface {
	Create(ctx context.Context, a Attempt) error
	Get(ctx context.Context, id string) (Attempt, error)
	Update(ctx context.Context, a Attempt) error
	List(ctx context.Context, opts ListOpts) ([]Attempt, error) // newest first
}
