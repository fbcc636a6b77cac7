package attempt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
)

// Recorder stores one answer per question per attempt. Answering a question
// again replaces the earlier choice and keeps the answer id.
type Recorder struct {
	h      *db.Handle
	ledger *Ledger
}

func NewRecorder(h *db.Handle, ledger *Ledger) *Recorder {
	return &Recorder{h: h, ledger: ledger}
}

func (r *Recorder) Record(ctx context.Context, attemptID, questionID, optionID int64) (int64, error) {
	ctx, cancel := r.h.Op(ctx)
	defer cancel()

	var answerID int64
	err := r.h.WithTx(ctx, func(tx *sql.Tx) error {
		testID, completed, err := r.ledger.lock(ctx, tx, attemptID)
		if err != nil {
			return err
		}
		if completed {
			return fmt.Errorf("%w: attempt %d no longer accepts answers", apperr.ErrAlreadyCompleted, attemptID)
		}

		ok, err := r.h.Exists(ctx, tx, `SELECT 1 FROM questions WHERE question_id=$1 AND test_id=$2`, questionID, testID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: question %d is not part of test %d", apperr.ErrInvalidReference, questionID, testID)
		}
		ok, err = r.h.Exists(ctx, tx, `SELECT 1 FROM answer_options WHERE option_id=$1 AND question_id=$2`, optionID, questionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: option %d is not an option of question %d", apperr.ErrInvalidReference, optionID, questionID)
		}

		err = tx.QueryRowContext(ctx, r.h.Rebind(
			`SELECT answer_id FROM user_answers WHERE attempt_id=$1 AND question_id=$2`), attemptID, questionID).
			Scan(&answerID)
		switch {
		case err == nil:
			_, err = tx.ExecContext(ctx, r.h.Rebind(
				`UPDATE user_answers SET selected_option_id=$1 WHERE answer_id=$2`), optionID, answerID)
			return db.Classify(err)
		case !errors.Is(err, sql.ErrNoRows):
			return db.Classify(err)
		}

		answerID, err = r.h.InsertID(ctx, tx,
			`INSERT INTO user_answers (attempt_id, question_id, selected_option_id) VALUES ($1,$2,$3)`,
			"answer_id", attemptID, questionID, optionID)
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: question %d was answered concurrently", apperr.ErrConflict, questionID)
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return answerID, nil
}
