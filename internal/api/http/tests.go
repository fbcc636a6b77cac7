package http

import (
	"net/http"

	"github.com/dstu-guide/guide-api/internal/quiz"
)

type createTestRequest struct {
	TestName        string `json:"test_name" validate:"required,max=255"`
	TestDescription string `json:"test_description"`
	CreatorID       int64  `json:"creator_id" validate:"required,gt=0"`
	IsPublished     bool   `json:"is_published"`
}

type optionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type addQuestionRequest struct {
	QuestionText string          `json:"question_text" validate:"required"`
	Options      []optionRequest `json:"options" validate:"required,min=2,dive"`
}

type publishRequest struct {
	IsPublished *bool `json:"is_published"`
}

// POST /api/tests
func CreateTestHandler(qs *quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTestRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id, err := qs.CreateTest(r.Context(), quiz.NewTest{
			Name:        req.TestName,
			Description: req.TestDescription,
			CreatorID:   req.CreatorID,
			IsPublished: req.IsPublished,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "test created", "test_id": id})
	}
}

// GET /api/tests lists published tests only.
func ListTestsHandler(qs *quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := qs.ListPublished(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /api/tests/{id} is the test-taker view: no correctness flags.
func GetTestHandler(qs *quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		v, err := qs.GetForTaker(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// POST /api/tests/{id}/questions
func AddQuestionHandler(qs *quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req addQuestionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		opts := make([]quiz.NewOption, 0, len(req.Options))
		for _, o := range req.Options {
			opts = append(opts, quiz.NewOption{Text: o.OptionText, IsCorrect: o.IsCorrect})
		}
		q, err := qs.AddQuestion(r.Context(), testID, req.QuestionText, opts)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "question added", "question": q})
	}
}

// POST /api/tests/{id}/publish, body optional: {"is_published": false} unpublishes.
func PublishTestHandler(qs *quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req publishRequest
		if !decodeBody(w, r, &req) {
			return
		}
		publish := req.IsPublished == nil || *req.IsPublished
		if err := qs.Publish(r.Context(), id, publish); err != nil {
			writeError(w, r, err)
			return
		}
		msg := "test published"
		if !publish {
			msg = "test unpublished"
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

// GET /api/questions/{id}/options
func QuestionOptionsHandler(qs *quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		opts, err := qs.OptionsForQuestion(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, opts)
	}
}
