// Package debate orchestrates a multi-round debate among persona-configured
// solver agents: independent solutions, all-pairs peer review, refinement,
// and a final judgment by a separate judge persona.
package debate

import (
	"fmt"
	"time"

	"github.com/debateflow/debateflow/config"
)

// SolverID identifies one of the three fixed solver agents. The set is
// closed: peer review is all ordered pairs excluding self, so every solver
// receives exactly two reviews.
type SolverID int

const (
	Solver1 SolverID = iota + 1
	Solver2
	Solver3
)

// JudgeName is the identity of the non-solver judge persona.
const JudgeName = "Judge"

// Solvers returns the solver identities in their fixed processing order.
func Solvers() []SolverID {
	return []SolverID{Solver1, Solver2, Solver3}
}

func (s SolverID) String() string {
	switch s {
	case Solver1:
		return "Solver_1"
	case Solver2:
		return "Solver_2"
	case Solver3:
		return "Solver_3"
	default:
		return fmt.Sprintf("Solver_?(%d)", int(s))
	}
}

// ParseSolverID maps the wire form ("Solver_1") back to an identity.
func ParseSolverID(s string) (SolverID, bool) {
	switch s {
	case "Solver_1":
		return Solver1, true
	case "Solver_2":
		return Solver2, true
	case "Solver_3":
		return Solver3, true
	default:
		return 0, false
	}
}

// MarshalText keeps SolverID usable as a JSON object key in its wire form.
func (s SolverID) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SolverID) UnmarshalText(text []byte) error {
	id, ok := ParseSolverID(string(text))
	if !ok {
		return fmt.Errorf("unknown solver id %q", string(text))
	}
	*s = id
	return nil
}

// Assessment is the categorical overall verdict a reviewer assigns.
type Assessment string

const (
	AssessmentPromisingButFlawed  Assessment = "promising_but_flawed"
	AssessmentSoundSolution       Assessment = "sound_solution"
	AssessmentFundamentallyFlawed Assessment = "fundamentally_flawed"
)

// Problem is one benchmark problem. Immutable input, loaded externally.
type Problem struct {
	ID            int    `json:"id"`
	Question      string `json:"question"`
	Category      string `json:"category"`
	CorrectAnswer string `json:"correct_answer"`
}

// SolutionRecord is a solver's raw Stage 1 output.
type SolutionRecord struct {
	RawResponse string         `json:"raw_response"`
	Persona     config.Persona `json:"config"`
}

// ReviewRecord is one peer review, tagged with its author.
type ReviewRecord struct {
	From   SolverID `json:"from"`
	Review string   `json:"review"`
}

// RefinedSolution is a solver's Stage 3 output: the original text, the
// refined text, and the exact two reviews consumed, in the order they
// arrived in Stage 2. Stage 3 reads them positionally, so that order is a
// load-bearing contract.
type RefinedSolution struct {
	Original        string         `json:"original"`
	Refined         string         `json:"refined"`
	ReviewsReceived []ReviewRecord `json:"reviews_received"`
}

// JudgmentResult is the final record of one debate run. It is handed to the
// result store at the end of the run and never reused across problems.
type JudgmentResult struct {
	RunID        string                       `json:"run_id"`
	Judgment     string                       `json:"judgment"`
	Problem      Problem                      `json:"problem"`
	AllSolutions map[SolverID]RefinedSolution `json:"all_solutions"`
	CompletedAt  time.Time                    `json:"completed_at"`
}

// Assignments binds the static personas to the fixed debate identities.
// Produced by Stage 0; a pure function of configuration.
type Assignments struct {
	Solvers map[SolverID]config.Persona
	Judge   config.Persona
}

// State tracks a single problem's progress through the pipeline.
type State int

const (
	StateUnstarted State = iota
	StateRoleAssigned
	StateSolutionsGenerated
	StateReviewed
	StateRefined
	StateJudged
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRoleAssigned:
		return "role_assigned"
	case StateSolutionsGenerated:
		return "solutions_generated"
	case StateReviewed:
		return "reviewed"
	case StateRefined:
		return "refined"
	case StateJudged:
		return "judged"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
