package grading

import "math"

// Score is the outcome of a finished attempt.
type Score struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"score"`
}

// Tally counts true flags against total, the number of questions in the test.
// Total is not derived from len(flags): unanswered questions count against the
// score.
func Tally(flags []bool, total int) Score {
	correct := 0
	for _, ok := range flags {
		if ok {
			correct++
		}
	}
	return Score{Correct: correct, Total: total, Percent: Percent(correct, total)}
}

// Percent is 100*correct/total rounded to two decimals, 0 when total is 0,
// and clamped to [0,100].
func Percent(correct, total int) float64 {
	if total <= 0 || correct <= 0 {
		return 0
	}
	p := float64(correct) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return math.Round(p*100) / 100
}
