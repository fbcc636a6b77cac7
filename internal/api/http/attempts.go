package http

import (
	"net/http"

	"github.com/dstu-guide/guide-api/internal/attempt"
)

type startAttemptRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	TestID    int64 `json:"test_id" validate:"required,gt=0"`
}

type submitAnswerRequest struct {
	QuestionID       int64 `json:"question_id" validate:"required,gt=0"`
	SelectedOptionID int64 `json:"selected_option_id" validate:"required,gt=0"`
}

// POST /api/attempts
func StartAttemptHandler(ledger *attempt.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startAttemptRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id, err := ledger.Start(r.Context(), req.StudentID, req.TestID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":    "attempt started",
			"attempt_id": id,
		})
	}
}

// POST /api/attempts/{id}/answers
// Resubmitting a question replaces the earlier choice and keeps its answer_id.
func SubmitAnswerHandler(rec *attempt.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req submitAnswerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		answerID, err := rec.Record(r.Context(), attemptID, req.QuestionID, req.SelectedOptionID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":   "answer saved",
			"answer_id": answerID,
		})
	}
}

// POST /api/attempts/{id}/finish
func FinishAttemptHandler(scorer *attempt.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		score, err := scorer.Finish(r.Context(), attemptID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "attempt finished",
			"score":   score.Percent,
			"correct": score.Correct,
			"total":   score.Total,
		})
	}
}

// GET /api/attempts/{id}
func GetAttemptHandler(ledger *attempt.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		d, err := ledger.Get(r.Context(), attemptID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// GET /api/users/{id}/attempts
func ListUserAttemptsHandler(ledger *attempt.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		list, err := ledger.ListForStudent(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
