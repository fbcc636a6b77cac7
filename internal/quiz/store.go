package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
)

// Store covers test authoring and the test-taker view. It is also the
// answer option store: correctness flags are read here and nowhere else.
type Store struct {
	h *db.Handle
}

func NewStore(h *db.Handle) *Store { return &Store{h: h} }

func (s *Store) CreateTest(ctx context.Context, in NewTest) (int64, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	var id int64
	err := s.h.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.h.Exists(ctx, tx, `SELECT 1 FROM users WHERE user_id=$1`, in.CreatorID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: creator %d does not exist", apperr.ErrInvalidReference, in.CreatorID)
		}
		var desc any
		if d := strings.TrimSpace(in.Description); d != "" {
			desc = d
		}
		id, err = s.h.InsertID(ctx, tx,
			`INSERT INTO tests (test_name, test_description, creator_id, is_published, created_at)
			 VALUES ($1,$2,$3,$4,$5)`, "test_id",
			strings.TrimSpace(in.Name), desc, in.CreatorID, in.IsPublished, time.Now().Unix())
		return err
	})
	return id, err
}

// AddQuestion stores a question with its options. Exactly one option must be
// marked correct; single-answer scoring relies on it.
func (s *Store) AddQuestion(ctx context.Context, testID int64, text string, opts []NewOption) (Question, error) {
	if len(opts) < 2 {
		return Question{}, fmt.Errorf("%w: a question needs at least two options", apperr.ErrInvalid)
	}
	correct := 0
	for _, o := range opts {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return Question{}, fmt.Errorf("%w: exactly one option must be correct, got %d", apperr.ErrInvalid, correct)
	}

	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	q := Question{TestID: testID, Text: strings.TrimSpace(text)}
	err := s.h.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.h.Exists(ctx, tx, `SELECT 1 FROM tests WHERE test_id=$1`, testID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: test %d", apperr.ErrNotFound, testID)
		}
		q.ID, err = s.h.InsertID(ctx, tx,
			`INSERT INTO questions (test_id, question_text) VALUES ($1,$2)`, "question_id", testID, q.Text)
		if err != nil {
			return err
		}
		for _, o := range opts {
			id, err := s.h.InsertID(ctx, tx,
				`INSERT INTO answer_options (question_id, option_text, is_correct) VALUES ($1,$2,$3)`,
				"option_id", q.ID, strings.TrimSpace(o.Text), o.IsCorrect)
			if err != nil {
				return err
			}
			q.Options = append(q.Options, Option{ID: id, Text: strings.TrimSpace(o.Text), IsCorrect: o.IsCorrect})
		}
		return nil
	})
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *Store) Publish(ctx context.Context, testID int64, published bool) error {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	// existence first: MySQL reports 0 affected rows for a no-op update
	ok, err := s.h.Exists(ctx, s.h, `SELECT 1 FROM tests WHERE test_id=$1`, testID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: test %d", apperr.ErrNotFound, testID)
	}
	_, err = s.h.ExecContext(ctx, s.h.Rebind(`UPDATE tests SET is_published=$1 WHERE test_id=$2`), published, testID)
	return db.Classify(err)
}

// ListPublished returns published tests, newest first.
func (s *Store) ListPublished(ctx context.Context) ([]TestSummary, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	rows, err := s.h.QueryContext(ctx, s.h.Rebind(
		`SELECT t.test_id, t.test_name, t.test_description, t.creator_id, t.is_published, t.created_at, u.full_name
		   FROM tests t
		   LEFT JOIN users u ON t.creator_id = u.user_id
		  WHERE t.is_published = $1
		  ORDER BY t.created_at DESC, t.test_id DESC`), true)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	out := []TestSummary{}
	for rows.Next() {
		var ts TestSummary
		var desc, creator sql.NullString
		var created int64
		if err := rows.Scan(&ts.ID, &ts.Name, &desc, &ts.CreatorID, &ts.IsPublished, &created, &creator); err != nil {
			return nil, err
		}
		ts.Description = nullString(desc)
		ts.CreatorName = nullString(creator)
		ts.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, ts)
	}
	return out, db.Classify(rows.Err())
}

// GetForTaker returns the test with its questions and options, leaving out
// every correctness flag.
func (s *Store) GetForTaker(ctx context.Context, testID int64) (TestView, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	var v TestView
	var desc sql.NullString
	var created int64
	err := s.h.QueryRowContext(ctx, s.h.Rebind(
		`SELECT test_id, test_name, test_description, creator_id, is_published, created_at
		   FROM tests WHERE test_id=$1`), testID).
		Scan(&v.ID, &v.Name, &desc, &v.CreatorID, &v.IsPublished, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return TestView{}, fmt.Errorf("%w: test %d", apperr.ErrNotFound, testID)
	}
	if err != nil {
		return TestView{}, db.Classify(err)
	}
	v.Description = nullString(desc)
	v.CreatedAt = time.Unix(created, 0).UTC()

	qrows, err := s.h.QueryContext(ctx, s.h.Rebind(
		`SELECT question_id, question_text FROM questions WHERE test_id=$1 ORDER BY question_id`), testID)
	if err != nil {
		return TestView{}, db.Classify(err)
	}
	v.Questions = []QuestionView{}
	index := map[int64]int{}
	for qrows.Next() {
		q := QuestionView{TestID: testID, Options: []OptionView{}}
		if err := qrows.Scan(&q.ID, &q.Text); err != nil {
			qrows.Close()
			return TestView{}, err
		}
		index[q.ID] = len(v.Questions)
		v.Questions = append(v.Questions, q)
	}
	qrows.Close()
	if err := qrows.Err(); err != nil {
		return TestView{}, db.Classify(err)
	}

	orows, err := s.h.QueryContext(ctx, s.h.Rebind(
		`SELECT o.option_id, o.question_id, o.option_text
		   FROM answer_options o
		   JOIN questions q ON o.question_id = q.question_id
		  WHERE q.test_id=$1
		  ORDER BY o.option_id`), testID)
	if err != nil {
		return TestView{}, db.Classify(err)
	}
	defer orows.Close()
	for orows.Next() {
		var o OptionView
		var qid int64
		if err := orows.Scan(&o.ID, &qid, &o.Text); err != nil {
			return TestView{}, err
		}
		if i, ok := index[qid]; ok {
			v.Questions[i].Options = append(v.Questions[i].Options, o)
		}
	}
	return v, db.Classify(orows.Err())
}

func (s *Store) IsCorrect(ctx context.Context, optionID int64) (bool, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	var ok bool
	err := s.h.QueryRowContext(ctx, s.h.Rebind(`SELECT is_correct FROM answer_options WHERE option_id=$1`), optionID).Scan(&ok)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: option %d", apperr.ErrNotFound, optionID)
	}
	return ok, db.Classify(err)
}

func (s *Store) OptionsForQuestion(ctx context.Context, questionID int64) ([]OptionView, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	ok, err := s.h.Exists(ctx, s.h, `SELECT 1 FROM questions WHERE question_id=$1`, questionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: question %d", apperr.ErrNotFound, questionID)
	}
	rows, err := s.h.QueryContext(ctx, s.h.Rebind(
		`SELECT option_id, option_text FROM answer_options WHERE question_id=$1 ORDER BY option_id`), questionID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	out := []OptionView{}
	for rows.Next() {
		var o OptionView
		if err := rows.Scan(&o.ID, &o.Text); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, db.Classify(rows.Err())
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
