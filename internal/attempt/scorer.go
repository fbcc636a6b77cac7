package attempt

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
	"github.com/dstu-guide/guide-api/internal/grading"
	syncx "github.com/dstu-guide/guide-api/internal/sync"
)

// Scorer finishes attempts. Finishing is one-shot: a second call fails with
// apperr.ErrAlreadyCompleted instead of recomputing.
type Scorer struct {
	h      *db.Handle
	ledger *Ledger
	events *syncx.EventRepo
}

func NewScorer(h *db.Handle, ledger *Ledger, events *syncx.EventRepo) *Scorer {
	return &Scorer{h: h, ledger: ledger, events: events}
}

func (s *Scorer) Finish(ctx context.Context, attemptID int64) (grading.Score, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	var score grading.Score
	err := s.h.WithTx(ctx, func(tx *sql.Tx) error {
		testID, completed, err := s.ledger.lock(ctx, tx, attemptID)
		if err != nil {
			return err
		}
		if completed {
			return fmt.Errorf("%w: attempt %d", apperr.ErrAlreadyCompleted, attemptID)
		}

		flags, err := s.answerFlags(ctx, tx, attemptID)
		if err != nil {
			return err
		}
		var total int
		if err := tx.QueryRowContext(ctx, s.h.Rebind(
			`SELECT COUNT(*) FROM questions WHERE test_id=$1`), testID).Scan(&total); err != nil {
			return db.Classify(err)
		}

		score = grading.Tally(flags, total)
		if err := s.ledger.Complete(ctx, tx, attemptID, score.Percent); err != nil {
			return err
		}
		if s.events == nil {
			return nil
		}
		return s.events.Append(ctx, tx, syncx.Event{
			Type: syncx.TypeAttemptCompleted,
			Key:  strconv.FormatInt(attemptID, 10),
			Data: map[string]any{
				"attempt_id": attemptID,
				"test_id":    testID,
				"score":      score.Percent,
				"correct":    score.Correct,
				"total":      score.Total,
			},
		})
	})
	if err != nil {
		return grading.Score{}, err
	}
	return score, nil
}

// answerFlags joins the recorded answers to their options' correctness.
func (s *Scorer) answerFlags(ctx context.Context, tx *sql.Tx, attemptID int64) ([]bool, error) {
	rows, err := tx.QueryContext(ctx, s.h.Rebind(
		`SELECT ao.is_correct
		   FROM user_answers ua
		   JOIN answer_options ao ON ua.selected_option_id = ao.option_id
		  WHERE ua.attempt_id=$1`), attemptID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var flags []bool
	for rows.Next() {
		var ok bool
		if err := rows.Scan(&ok); err != nil {
			return nil, err
		}
		flags = append(flags, ok)
	}
	return flags, db.Classify(rows.Err())
}
