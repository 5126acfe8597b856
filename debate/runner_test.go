package debate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/debateflow/debateflow/config"
	"github.com/debateflow/debateflow/llm"
)

// memStore is an in-memory ResultStore.
type memStore struct {
	completed map[int]struct{}
	saved     []*JudgmentResult
	summaries [][]*JudgmentResult
}

func (s *memStore) Save(result *JudgmentResult) (string, error) {
	s.saved = append(s.saved, result)
	return fmt.Sprintf("mem://problem_%d", result.Problem.ID), nil
}

func (s *memStore) CompletedIDs() (map[int]struct{}, error) {
	if s.completed == nil {
		return map[int]struct{}{}, nil
	}
	return s.completed, nil
}

func (s *memStore) SaveSummary(results []*JudgmentResult) (string, error) {
	s.summaries = append(s.summaries, results)
	return "mem://summary", nil
}

func problemSet(n int) []Problem {
	problems := make([]Problem, n)
	for i := range problems {
		problems[i] = Problem{
			ID:            i,
			Question:      fmt.Sprintf("question %d", i),
			Category:      "logic",
			CorrectAnswer: "42",
		}
	}
	return problems
}

// failMarker in a question makes every call for that problem fail.
const failMarker = "UNANSWERABLE"

func newTestRunner(t *testing.T, store ResultStore) (*Runner, *scriptedProvider) {
	t.Helper()
	provider := &scriptedProvider{
		script: func(call int, prompt string) (string, error) {
			if strings.Contains(prompt, failMarker) {
				return "", &llm.Error{Code: llm.ErrUpstreamError, Message: "boom"}
			}
			return fmt.Sprintf("resp-%d", call), nil
		},
	}
	orch := newTestOrchestrator(t, provider)
	return NewRunner(orch, store, zap.NewNop()), provider
}

func TestRunner_ResumeBySkip(t *testing.T) {
	store := &memStore{completed: map[int]struct{}{0: {}, 1: {}, 2: {}}}
	runner, provider := newTestRunner(t, store)

	report, err := runner.RunAll(context.Background(), problemSet(4))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 0, report.Failed)

	require.Len(t, store.saved, 1)
	assert.Equal(t, 3, store.saved[0].Problem.ID)
	// Only one debate's worth of calls was issued.
	assert.Len(t, provider.prompts, 13)
}

func TestRunner_AllCompletedRunsNothing(t *testing.T) {
	store := &memStore{completed: map[int]struct{}{0: {}, 1: {}}}
	runner, provider := newTestRunner(t, store)

	report, err := runner.RunAll(context.Background(), problemSet(2))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, store.saved)
	assert.Empty(t, provider.prompts)
	assert.Empty(t, store.summaries, "no summary without fresh results")
}

func TestRunner_FailureIsolation(t *testing.T) {
	store := &memStore{}
	runner, _ := newTestRunner(t, store)

	problems := problemSet(3)
	problems[1].Question = "this one is " + failMarker

	report, err := runner.RunAll(context.Background(), problems)
	require.NoError(t, err, "a problem failure must not fail the batch")

	assert.Equal(t, 2, report.Completed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].ProblemID)

	// Problems 0 and 2 were persisted despite problem 1 failing.
	require.Len(t, store.saved, 2)
	assert.Equal(t, 0, store.saved[0].Problem.ID)
	assert.Equal(t, 2, store.saved[1].Problem.ID)

	// The summary holds only the fresh successes.
	require.Len(t, store.summaries, 1)
	assert.Len(t, store.summaries[0], 2)
}

func TestRunner_RunSingle(t *testing.T) {
	store := &memStore{}
	runner, _ := newTestRunner(t, store)

	result, err := runner.RunSingle(context.Background(), problemSet(3), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Problem.ID)
	require.Len(t, store.saved, 1)
}

func TestRunner_RunSingleUnknownID(t *testing.T) {
	runner, _ := newTestRunner(t, &memStore{})
	_, err := runner.RunSingle(context.Background(), problemSet(3), 99)
	assert.ErrorContains(t, err, "problem 99 not found")
}

func TestRunner_ContextCancellationStopsBatch(t *testing.T) {
	store := &memStore{}
	runner, _ := newTestRunner(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.RunAll(ctx, problemSet(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch interrupted")
	assert.Empty(t, store.saved)
}

// Keep the persona defaults honest: the runner path depends on the registry
// shipping exactly three distinct solvers and a judge.
func TestDefaultPersonaRegistry(t *testing.T) {
	solvers := config.DefaultSolvers()
	require.Len(t, solvers, 3)

	names := map[string]bool{}
	for _, s := range solvers {
		assert.NotEmpty(t, s.Role)
		assert.NotEmpty(t, s.SystemPrompt)
		assert.False(t, names[s.Name], "duplicate persona %s", s.Name)
		names[s.Name] = true
	}

	judge := config.DefaultJudge()
	assert.Equal(t, JudgeName, judge.Name)
	assert.Empty(t, judge.Role)
	assert.False(t, names[judge.Name], "judge must not be a solver identity")
}
