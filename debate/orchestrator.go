package debate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/debateflow/debateflow/config"
	"github.com/debateflow/debateflow/internal/metrics"
	"github.com/debateflow/debateflow/llm"
)

// Orchestrator drives one problem at a time through the five sequential
// stages. Stage N never begins before stage N-1 has completed for all three
// solvers; any stage failure aborts the problem's run. The orchestrator
// holds no per-problem state between runs, so a failed problem leaves the
// next one starting clean.
type Orchestrator struct {
	client  *llm.Client
	cfg     config.DebateConfig
	metrics *metrics.Collector
	logger  *zap.Logger

	// state of the most recent run, for observability only
	state State
}

// NewOrchestrator creates an orchestrator over a validated persona registry.
func NewOrchestrator(client *llm.Client, cfg config.DebateConfig, collector *metrics.Collector, logger *zap.Logger) (*Orchestrator, error) {
	if len(cfg.Solvers) != 3 {
		return nil, fmt.Errorf("debate: expected exactly 3 solver personas, got %d", len(cfg.Solvers))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		client:  client,
		cfg:     cfg,
		metrics: collector,
		logger:  logger.With(zap.String("component", "orchestrator")),
	}, nil
}

// State reports the pipeline state of the most recent run.
func (o *Orchestrator) State() State { return o.state }

func (o *Orchestrator) transition(s State, problemID int) {
	o.state = s
	o.logger.Debug("state transition",
		zap.Int("problem_id", problemID),
		zap.String("state", s.String()))
}

// RunDebate runs the complete debate pipeline on one problem.
func (o *Orchestrator) RunDebate(ctx context.Context, problem Problem) (*JudgmentResult, error) {
	o.transition(StateUnstarted, problem.ID)
	o.logger.Info("starting debate",
		zap.Int("problem_id", problem.ID),
		zap.String("category", problem.Category))

	assignments := o.assignRoles()
	o.transition(StateRoleAssigned, problem.ID)

	solutions, err := o.independentSolutions(ctx, problem, assignments)
	if err != nil {
		return o.fail(problem, err)
	}
	o.transition(StateSolutionsGenerated, problem.ID)

	reviews, err := o.peerReview(ctx, problem, solutions, assignments)
	if err != nil {
		return o.fail(problem, err)
	}
	o.transition(StateReviewed, problem.ID)

	refined, err := o.refinement(ctx, problem, solutions, reviews, assignments)
	if err != nil {
		return o.fail(problem, err)
	}
	o.transition(StateRefined, problem.ID)

	result, err := o.finalJudgment(ctx, problem, refined, assignments)
	if err != nil {
		return o.fail(problem, err)
	}
	o.transition(StateJudged, problem.ID)
	o.metrics.RecordDebate("success")

	o.logger.Info("debate complete",
		zap.Int("problem_id", problem.ID),
		zap.String("run_id", result.RunID))
	return result, nil
}

func (o *Orchestrator) fail(problem Problem, err error) (*JudgmentResult, error) {
	o.transition(StateFailed, problem.ID)
	o.metrics.RecordDebate("failed")
	return nil, fmt.Errorf("debate on problem %d: %w", problem.ID, err)
}

// assignRoles is Stage 0: bind the static personas to the fixed identities.
// Deterministic, not model-driven; no failure mode.
func (o *Orchestrator) assignRoles() Assignments {
	a := Assignments{
		Solvers: map[SolverID]config.Persona{
			Solver1: o.cfg.Solvers[0],
			Solver2: o.cfg.Solvers[1],
			Solver3: o.cfg.Solvers[2],
		},
		Judge: o.cfg.Judge,
	}
	for _, id := range Solvers() {
		o.logger.Debug("role assigned",
			zap.String("solver", id.String()),
			zap.String("role", a.Solvers[id].Role))
	}
	return a
}

// independentSolutions is Stage 1: each solver answers the problem on its
// own. A failure from any solver call aborts the run.
func (o *Orchestrator) independentSolutions(ctx context.Context, problem Problem, a Assignments) (map[SolverID]SolutionRecord, error) {
	start := time.Now()
	solutions := make(map[SolverID]SolutionRecord, 3)

	for _, id := range Solvers() {
		persona := a.Solvers[id]
		o.logger.Info("generating solution", zap.String("solver", id.String()))

		response, err := o.client.GenerateWithPersona(ctx, solutionPrompt(problem), persona)
		if err != nil {
			return nil, fmt.Errorf("stage 1, %s: %w", id, err)
		}
		solutions[id] = SolutionRecord{RawResponse: response, Persona: persona}
	}

	o.metrics.RecordStage("independent_solutions", time.Since(start))
	return solutions, nil
}

// peerReview is Stage 2: every ordered (reviewer, target) pair with
// reviewer != target, six calls total. Reviews append to the target's list
// in reviewer loop order; Stage 3 consumes them positionally, so the
// accumulation order is preserved as-is.
func (o *Orchestrator) peerReview(ctx context.Context, problem Problem, solutions map[SolverID]SolutionRecord, a Assignments) (map[SolverID][]ReviewRecord, error) {
	start := time.Now()
	reviews := make(map[SolverID][]ReviewRecord, 3)

	for _, reviewer := range Solvers() {
		persona := a.Solvers[reviewer]
		for _, target := range Solvers() {
			if target == reviewer {
				continue
			}
			o.logger.Info("peer review",
				zap.String("reviewer", reviewer.String()),
				zap.String("target", target.String()))

			prompt := reviewPrompt(problem, target, solutions[target].RawResponse, persona.Role)
			review, err := o.client.GenerateWithPersona(ctx, prompt, persona)
			if err != nil {
				return nil, fmt.Errorf("stage 2, %s reviewing %s: %w", reviewer, target, err)
			}
			reviews[target] = append(reviews[target], ReviewRecord{From: reviewer, Review: review})
		}
	}

	o.metrics.RecordStage("peer_review", time.Since(start))
	return reviews, nil
}

// refinement is Stage 3: each solver revises its own solution in light of
// the two reviews it received.
func (o *Orchestrator) refinement(ctx context.Context, problem Problem, solutions map[SolverID]SolutionRecord, reviews map[SolverID][]ReviewRecord, a Assignments) (map[SolverID]RefinedSolution, error) {
	start := time.Now()
	refined := make(map[SolverID]RefinedSolution, 3)

	for _, id := range Solvers() {
		received := reviews[id]
		if len(received) != 2 {
			return nil, fmt.Errorf("stage 3, %s: expected 2 reviews, got %d", id, len(received))
		}
		o.logger.Info("refining solution", zap.String("solver", id.String()))

		prompt := refinementPrompt(problem, solutions[id].RawResponse, received)
		response, err := o.client.GenerateWithPersona(ctx, prompt, a.Solvers[id])
		if err != nil {
			return nil, fmt.Errorf("stage 3, %s: %w", id, err)
		}
		refined[id] = RefinedSolution{
			Original:        solutions[id].RawResponse,
			Refined:         response,
			ReviewsReceived: received,
		}
	}

	o.metrics.RecordStage("refinement", time.Since(start))
	return refined, nil
}

// finalJudgment is Stage 4: a single judge call over the three refined
// solutions. The judgment text, the problem, and the refined records are
// packaged into the final result.
func (o *Orchestrator) finalJudgment(ctx context.Context, problem Problem, refined map[SolverID]RefinedSolution, a Assignments) (*JudgmentResult, error) {
	start := time.Now()
	o.logger.Info("final judgment", zap.Int("problem_id", problem.ID))

	judgment, err := o.client.GenerateWithPersona(ctx, judgmentPrompt(problem, refined), a.Judge)
	if err != nil {
		return nil, fmt.Errorf("stage 4, judge: %w", err)
	}

	o.metrics.RecordStage("final_judgment", time.Since(start))

	if winner, ok := ExtractWinner(judgment); ok {
		o.logger.Info("winner declared", zap.String("winner", winner.String()))
	} else {
		o.logger.Warn("judgment contains no parseable winner", zap.Int("problem_id", problem.ID))
	}

	return &JudgmentResult{
		RunID:        uuid.NewString(),
		Judgment:     judgment,
		Problem:      problem,
		AllSolutions: refined,
		CompletedAt:  time.Now().UTC(),
	}, nil
}
