package eval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/debateflow/debateflow/debate"
)

var (
	// characters stripped during normalization: everything outside
	// word chars, whitespace, period, comma, parentheses
	normalizePattern = regexp.MustCompile(`[^\w\s.,()]`)
	// first decimal-number token
	numberPattern = regexp.MustCompile(`\d+\.?\d*`)
)

// EquivalencePair is one symmetric keyword-equivalence rule: the answer
// matches when all tokens of one side appear in the extracted answer's word
// set and all tokens of the other side in the correct answer's word set, in
// either direction.
type EquivalencePair struct {
	A []string `yaml:"a"`
	B []string `yaml:"b"`
}

// DefaultEquivalences carries hand-authored equivalences tied to the
// original benchmark set (ladder friction, Nash equilibrium, rock paper
// scissors, light bulbs). They are a dataset-specific patch, not a general
// algorithm; supply your own table for a new problem set.
func DefaultEquivalences() []EquivalencePair {
	return []EquivalencePair{
		{A: []string{"cot", "theta", "2"}, B: []string{"1", "2", "tan", "theta"}},
		{A: []string{"cotangent", "2"}, B: []string{"1", "2", "tangent"}},
		{A: []string{"defect", "defect", "not", "pareto"}, B: []string{"defect", "defect", "not", "pareto"}},
		{A: []string{"play", "paper", "100"}, B: []string{"play", "paper", "100"}},
		{A: []string{"always", "paper"}, B: []string{"paper", "100"}},
		{A: []string{"goes", "out", "completely"}, B: []string{"goes", "out", "completely"}},
		{A: []string{"zero", "current"}, B: []string{"no", "current"}},
		{A: []string{"not", "light"}, B: []string{"goes", "out"}},
	}
}

// Checker grades judgment records. Intentionally permissive: substring
// containment over normalized text is an accepted tradeoff, documented as a
// design limitation.
type Checker struct {
	equivalences []EquivalencePair
}

// NewChecker creates a checker. A nil table uses DefaultEquivalences.
func NewChecker(equivalences []EquivalencePair) *Checker {
	if equivalences == nil {
		equivalences = DefaultEquivalences()
	}
	return &Checker{equivalences: equivalences}
}

// IsCorrect reports whether the result's judged final answer matches the
// problem's ground truth under the layered rules: normalized containment,
// numeric tolerance 0.01, then the equivalence table. It never fails.
func (c *Checker) IsCorrect(result *debate.JudgmentResult, problem debate.Problem) bool {
	if result == nil {
		return false
	}
	return c.AnswerMatches(ExtractAnswer(result.Judgment), problem.CorrectAnswer)
}

// AnswerMatches applies the grading rules to an already-extracted answer.
func (c *Checker) AnswerMatches(finalAnswer, correctAnswer string) bool {
	finalClean := normalize(finalAnswer)
	correctClean := normalize(correctAnswer)

	if correctClean != "" && strings.Contains(finalClean, correctClean) {
		return true
	}

	if numbersWithinTolerance(finalAnswer, correctAnswer) {
		return true
	}

	finalWords := wordSet(finalClean)
	correctWords := wordSet(correctClean)
	for _, pair := range c.equivalences {
		if containsAll(finalWords, pair.A) && containsAll(correctWords, pair.B) {
			return true
		}
		if containsAll(finalWords, pair.B) && containsAll(correctWords, pair.A) {
			return true
		}
	}

	return false
}

// normalize lowercases and strips every character outside the allowed set.
func normalize(s string) string {
	return normalizePattern.ReplaceAllString(strings.ToLower(s), "")
}

// numbersWithinTolerance extracts the first decimal token from each raw
// string and compares with absolute tolerance 0.01. Parse failure means
// "not correct by this rule", never an error.
func numbersWithinTolerance(finalAnswer, correctAnswer string) bool {
	finalNum := numberPattern.FindString(finalAnswer)
	correctNum := numberPattern.FindString(correctAnswer)
	if finalNum == "" || correctNum == "" {
		return false
	}
	f, err1 := strconv.ParseFloat(finalNum, 64)
	g, err2 := strconv.ParseFloat(correctNum, 64)
	if err1 != nil || err2 != nil {
		return false
	}
	diff := f - g
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.01
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func containsAll(set map[string]struct{}, words []string) bool {
	for _, w := range words {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
