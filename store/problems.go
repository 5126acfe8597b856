// Package store handles the thin I/O boundaries of the debate system:
// problem-set loading and per-problem JSON result persistence. Results are
// owned by this layer once a run hands them over.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/debateflow/debateflow/debate"
)

// LoadProblems reads the problem set from a JSON file: an array of objects
// with id, question, category and correct_answer.
func LoadProblems(path string) ([]debate.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problems %s: %w", path, err)
	}
	var problems []debate.Problem
	if err := json.Unmarshal(data, &problems); err != nil {
		return nil, fmt.Errorf("parse problems %s: %w", path, err)
	}
	return problems, nil
}
