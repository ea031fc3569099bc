package attempt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mind-engage/questionui/internal/grading"
)

type SQLStore struct {
	db *sql.DB
}

// NewSQLStore stores attempts in the attempts table created by db.Open.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// row holds the JSON-encoded columns of an attempt.
type row struct {
	ui, response, options, score string
}

func encode(a Attempt) (row, error) {
	var r row
	for _, f := range []struct {
		dst *string
		v   any
	}{
		{&r.ui, a.UI},
		{&r.response, a.Response},
		{&r.options, a.Options},
	} {
		buf, err := json.Marshal(f.v)
		if err != nil {
			return row{}, err
		}
		*f.dst = string(buf)
	}
	if a.Score != nil {
		buf, err := json.Marshal(a.Score)
		if err != nil {
			return row{}, err
		}
		r.score = string(buf)
	}
	return r, nil
}

func (s *SQLStore) Create(ctx context.Context, a Attempt) error {
	r, err := encode(a)
	if err != nil {
		return fmt.Errorf("encode attempt %s: %w", a.ID, err)
	}
	var exist int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM attempts WHERE id=$1`, a.ID).Scan(&exist)
	switch {
	case err == nil:
		return ErrExists
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts
		(id,question_id,status,seed,ui_json,response_json,options_json,score_json,started_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.QuestionID, string(a.Status), a.Seed, r.ui, r.response, r.options, r.score,
		a.StartedAt.UnixMilli(), a.UpdatedAt.UnixMilli())
	return err
}

func (s *SQLStore) Update(ctx context.Context, a Attempt) error {
	r, err := encode(a)
	if err != nil {
		return fmt.Errorf("encode attempt %s: %w", a.ID, err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE attempts SET
		status=$1, seed=$2, ui_json=$3, response_json=$4, options_json=$5, score_json=$6, updated_at=$7
		WHERE id=$8`,
		string(a.Status), a.Seed, r.ui, r.response, r.options, r.score, a.UpdatedAt.UnixMilli(), a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectAttempt = `SELECT id,question_id,status,seed,ui_json,response_json,options_json,score_json,started_at,updated_at FROM attempts`

func (s *SQLStore) Get(ctx context.Context, id string) (Attempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx, selectAttempt+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrNotFound
	}
	return a, err
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Attempt, error) {
	var (
		where []string
		args  []any
	)
	if opts.QuestionID != "" {
		args = append(args, opts.QuestionID)
		where = append(where, fmt.Sprintf("question_id=$%d", len(args)))
	}
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	q := selectAttempt
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY started_at DESC, id"
	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			// sqlite only accepts OFFSET after a LIMIT
			limit = math.MaxInt32
		}
		args = append(args, limit, opts.Offset)
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(sc scanner) (Attempt, error) {
	var (
		a                Attempt
		status           string
		r                row
		started, updated int64
	)
	if err := sc.Scan(&a.ID, &a.QuestionID, &status, &a.Seed, &r.ui, &r.response, &r.options, &r.score,
		&started, &updated); err != nil {
		return Attempt{}, err
	}
	a.Status = Status(status)
	a.StartedAt = time.UnixMilli(started).UTC()
	a.UpdatedAt = time.UnixMilli(updated).UTC()

	if err := json.Unmarshal([]byte(r.ui), &a.UI); err != nil {
		return Attempt{}, fmt.Errorf("decode attempt %s ui: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(r.response), &a.Response); err != nil {
		return Attempt{}, fmt.Errorf("decode attempt %s response: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(r.options), &a.Options); err != nil {
		return Attempt{}, fmt.Errorf("decode attempt %s options: %w", a.ID, err)
	}
	if r.score != "" {
		a.Score = &grading.Score{}
		if err := json.Unmarshal([]byte(r.score), a.Score); err != nil {
			return Attempt{}, fmt.Errorf("decode attempt %s score: %w", a.ID, err)
		}
	}
	return a, nil
}
