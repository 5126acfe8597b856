package debate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ResultStore persists completed debate runs. Implemented by the store
// package; the runner only needs these three operations.
type ResultStore interface {
	// Save persists one result and returns the path it was written to.
	Save(result *JudgmentResult) (string, error)
	// CompletedIDs reports the problem IDs already present in the store.
	CompletedIDs() (map[int]struct{}, error)
	// SaveSummary persists the batch's aggregate collection.
	SaveSummary(results []*JudgmentResult) (string, error)
}

// ProblemFailure records one problem's fatal stage failure within a batch.
type ProblemFailure struct {
	ProblemID int    `json:"problem_id"`
	Error     string `json:"error"`
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Total     int              `json:"total"`
	Skipped   int              `json:"skipped"`
	Completed int              `json:"completed"`
	Failed    int              `json:"failed"`
	Failures  []ProblemFailure `json:"failures,omitempty"`
}

// Runner executes debates over a problem set, one problem at a time, with
// resume-by-skip and per-problem failure isolation.
type Runner struct {
	orch   *Orchestrator
	store  ResultStore
	logger *zap.Logger
}

// NewRunner creates a batch runner.
func NewRunner(orch *Orchestrator, store ResultStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		orch:   orch,
		store:  store,
		logger: logger.With(zap.String("component", "runner")),
	}
}

// RunSingle runs the debate on the one problem with the given ID and
// persists the result.
func (r *Runner) RunSingle(ctx context.Context, problems []Problem, id int) (*JudgmentResult, error) {
	var problem *Problem
	for i := range problems {
		if problems[i].ID == id {
			problem = &problems[i]
			break
		}
	}
	if problem == nil {
		return nil, fmt.Errorf("problem %d not found", id)
	}

	result, err := r.orch.RunDebate(ctx, *problem)
	if err != nil {
		return nil, err
	}
	path, err := r.store.Save(result)
	if err != nil {
		return nil, fmt.Errorf("persist problem %d: %w", id, err)
	}
	r.logger.Info("result saved", zap.Int("problem_id", id), zap.String("path", path))
	return result, nil
}

// RunAll runs the debate over every problem not already completed. The
// completed-ID set is read once at batch start; re-running a batch against
// the same store is idempotent by skip. A fatal failure on one problem is
// logged and recorded, and the batch proceeds to the next problem. A context
// cancellation stops the batch.
func (r *Runner) RunAll(ctx context.Context, problems []Problem) (*BatchReport, error) {
	completed, err := r.store.CompletedIDs()
	if err != nil {
		return nil, fmt.Errorf("read completed ids: %w", err)
	}

	report := &BatchReport{Total: len(problems)}
	r.logger.Info("starting batch",
		zap.Int("total", len(problems)),
		zap.Int("already_completed", len(completed)))

	var results []*JudgmentResult
	for _, problem := range problems {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("batch interrupted: %w", err)
		}
		if _, done := completed[problem.ID]; done {
			r.logger.Info("skipping completed problem", zap.Int("problem_id", problem.ID))
			report.Skipped++
			continue
		}

		result, err := r.orch.RunDebate(ctx, problem)
		if err != nil {
			r.logger.Error("problem failed, continuing batch",
				zap.Int("problem_id", problem.ID),
				zap.Error(err))
			report.Failed++
			report.Failures = append(report.Failures, ProblemFailure{
				ProblemID: problem.ID,
				Error:     err.Error(),
			})
			continue
		}

		if _, err := r.store.Save(result); err != nil {
			r.logger.Error("persist failed, continuing batch",
				zap.Int("problem_id", problem.ID),
				zap.Error(err))
			report.Failed++
			report.Failures = append(report.Failures, ProblemFailure{
				ProblemID: problem.ID,
				Error:     fmt.Sprintf("persist: %v", err),
			})
			continue
		}
		report.Completed++
		results = append(results, result)
	}

	if len(results) > 0 {
		if path, err := r.store.SaveSummary(results); err != nil {
			r.logger.Warn("summary save failed", zap.Error(err))
		} else {
			r.logger.Info("summary saved", zap.String("path", path))
		}
	}

	r.logger.Info("batch complete",
		zap.Int("completed_now", report.Completed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("total_done", report.Completed+report.Skipped),
		zap.Int("total", report.Total))
	return report, nil
}
