package attempt

import "time"

type Attempt struct {
	ID          int64      `json:"attempt_id"`
	StudentID   int64      `json:"student_id"`
	TestID      int64      `json:"test_id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	FinalScore  *float64   `json:"final_score"`
}

func (a Attempt) Completed() bool { return a.CompletedAt != nil }

// Detail is an attempt joined with the names shown on the result page.
type Detail struct {
	Attempt
	StudentName string `json:"student_name"`
	TestName    string `json:"test_name"`
}
