package quiz

import "time"

// Option is the authoring view, correctness flag included.
type Option struct {
	ID        int64  `json:"option_id"`
	Text      string `json:"option_text"`
	IsCorrect bool   `json:"is_correct"`
}

// OptionView is what test-takers see. It has no correctness flag on purpose.
type OptionView struct {
	ID   int64  `json:"option_id"`
	Text string `json:"option_text"`
}

type Question struct {
	ID      int64    `json:"question_id"`
	TestID  int64    `json:"test_id"`
	Text    string   `json:"question_text"`
	Options []Option `json:"options"`
}

type QuestionView struct {
	ID      int64        `json:"question_id"`
	TestID  int64        `json:"test_id"`
	Text    string       `json:"question_text"`
	Options []OptionView `json:"options"`
}

type Test struct {
	ID          int64     `json:"test_id"`
	Name        string    `json:"test_name"`
	Description *string   `json:"test_description"`
	CreatorID   int64     `json:"creator_id"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type TestSummary struct {
	Test
	CreatorName *string `json:"creator_name"`
}

type TestView struct {
	Test
	Questions []QuestionView `json:"questions"`
}

type NewTest struct {
	Name        string
	Description string
	CreatorID   int64
	IsPublished bool
}

type NewOption struct {
	Text      string
	IsCorrect bool
}
