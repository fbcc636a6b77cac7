package attempt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
)

// Ledger owns the test_attempts rows: one per started attempt, completed at
// most once.
type Ledger struct {
	h   *db.Handle
	now func() time.Time
}

func NewLedger(h *db.Handle, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{h: h, now: now}
}

// Start opens a new attempt. Several open attempts for the same student and
// test are allowed, and so are unpublished tests.
func (l *Ledger) Start(ctx context.Context, studentID, testID int64) (int64, error) {
	ctx, cancel := l.h.Op(ctx)
	defer cancel()

	var id int64
	err := l.h.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := l.h.Exists(ctx, tx, `SELECT 1 FROM users WHERE user_id=$1`, studentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: student %d does not exist", apperr.ErrInvalidReference, studentID)
		}
		ok, err = l.h.Exists(ctx, tx, `SELECT 1 FROM tests WHERE test_id=$1`, testID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: test %d does not exist", apperr.ErrInvalidReference, testID)
		}
		id, err = l.h.InsertID(ctx, tx,
			`INSERT INTO test_attempts (student_id, test_id, started_at) VALUES ($1,$2,$3)`,
			"attempt_id", studentID, testID, l.now().Unix())
		return err
	})
	return id, err
}

// Complete sets final_score and completed_at together, and only if the
// attempt is still open.
func (l *Ledger) Complete(ctx context.Context, q db.Querier, attemptID int64, score float64) error {
	res, err := q.ExecContext(ctx, l.h.Rebind(
		`UPDATE test_attempts SET final_score=$1, completed_at=$2
		  WHERE attempt_id=$3 AND completed_at IS NULL`),
		score, l.now().Unix(), attemptID)
	if err != nil {
		return db.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.Classify(err)
	}
	if n == 1 {
		return nil
	}
	ok, err := l.h.Exists(ctx, q, `SELECT 1 FROM test_attempts WHERE attempt_id=$1`, attemptID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: attempt %d", apperr.ErrNotFound, attemptID)
	}
	return fmt.Errorf("%w: attempt %d", apperr.ErrAlreadyCompleted, attemptID)
}

func (l *Ledger) Get(ctx context.Context, attemptID int64) (Detail, error) {
	ctx, cancel := l.h.Op(ctx)
	defer cancel()

	row := l.h.QueryRowContext(ctx, l.h.Rebind(detailSelect+` WHERE ta.attempt_id=$1`), attemptID)
	d, err := scanDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Detail{}, fmt.Errorf("%w: attempt %d", apperr.ErrNotFound, attemptID)
	}
	if err != nil {
		return Detail{}, db.Classify(err)
	}
	return d, nil
}

// ListForStudent returns a student's attempts, newest first. An unknown
// student is ErrNotFound rather than an empty list.
func (l *Ledger) ListForStudent(ctx context.Context, studentID int64) ([]Detail, error) {
	ctx, cancel := l.h.Op(ctx)
	defer cancel()

	ok, err := l.h.Exists(ctx, l.h, `SELECT 1 FROM users WHERE user_id=$1`, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, studentID)
	}
	rows, err := l.h.QueryContext(ctx, l.h.Rebind(
		detailSelect+` WHERE ta.student_id=$1 ORDER BY ta.started_at DESC, ta.attempt_id DESC`), studentID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	out := []Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, d)
	}
	return out, db.Classify(rows.Err())
}

// lock reads the attempt's test and completion state, locking the row where
// the dialect supports it so answers and finish on one attempt serialise.
func (l *Ledger) lock(ctx context.Context, tx *sql.Tx, attemptID int64) (testID int64, completed bool, err error) {
	var completedAt sql.NullInt64
	err = tx.QueryRowContext(ctx, l.h.Rebind(
		`SELECT test_id, completed_at FROM test_attempts WHERE attempt_id=$1`+l.h.ForUpdate()), attemptID).
		Scan(&testID, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%w: attempt %d", apperr.ErrNotFound, attemptID)
	}
	if err != nil {
		return 0, false, db.Classify(err)
	}
	return testID, completedAt.Valid, nil
}

const detailSelect = `SELECT ta.attempt_id, ta.student_id, ta.test_id, ta.started_at, ta.completed_at, ta.final_score,
       u.full_name, t.test_name
  FROM test_attempts ta
  JOIN users u ON ta.student_id = u.user_id
  JOIN tests t ON ta.test_id = t.test_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanDetail(s scanner) (Detail, error) {
	var d Detail
	var started int64
	var completed sql.NullInt64
	var score sql.NullFloat64
	if err := s.Scan(&d.ID, &d.StudentID, &d.TestID, &started, &completed, &score, &d.StudentName, &d.TestName); err != nil {
		return Detail{}, err
	}
	d.StartedAt = time.Unix(started, 0).UTC()
	if completed.Valid {
		t := time.Unix(completed.Int64, 0).UTC()
		d.CompletedAt = &t
	}
	if score.Valid {
		v := score.Float64
		d.FinalScore = &v
	}
	return d, nil
}
