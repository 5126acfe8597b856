package eval

import (
	"fmt"
	"io"

	"github.com/debateflow/debateflow/debate"
)

// Metrics are the aggregate figures consumed downstream by reporting.
type Metrics struct {
	TotalProblems  int     `json:"total_problems"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
}

// Calculate grades every result and aggregates. An empty input yields zero
// metrics; accuracy is guarded against division by zero.
func (c *Checker) Calculate(results []*debate.JudgmentResult) Metrics {
	m := Metrics{TotalProblems: len(results)}
	for _, result := range results {
		if result == nil {
			continue
		}
		if c.IsCorrect(result, result.Problem) {
			m.CorrectAnswers++
		}
	}
	if m.TotalProblems > 0 {
		m.Accuracy = float64(m.CorrectAnswers) / float64(m.TotalProblems)
	}
	return m
}

// WriteReport renders a plain-text evaluation report.
func WriteReport(w io.Writer, m Metrics) error {
	_, err := fmt.Fprintf(w, `=======================================================
       MULTI-LLM DEBATE SYSTEM EVALUATION REPORT
=======================================================

OVERALL PERFORMANCE:
-------------------
Total Problems:      %d
Correct Answers:     %d
Accuracy:            %.2f%%

=======================================================
`, m.TotalProblems, m.CorrectAnswers, m.Accuracy*100)
	return err
}
