package debate

import "fmt"

// Prompt templates for the five-stage pipeline. The labeled sections are a
// structural contract: the extractor and winner parser downstream key off
// the ANSWER / FINAL_ANSWER / WINNER / CONFIDENCE headings.

const solutionTemplate = `Problem: %s

Provide a complete solution with step-by-step reasoning. Structure your response as:

REASONING:
[Your detailed step-by-step reasoning]

ANSWER:
[Your final answer]

CONFIDENCE:
[Your confidence level from 0 to 1]
`

const reviewTemplate = `Problem: %s

Solution to review from %s:
%s

As %s, critically evaluate this solution. Provide:

STRENGTHS:
- [List strengths]

WEAKNESSES:
- [List weaknesses]

ERRORS:
- [Identify any logical errors, calculation mistakes, or unjustified assumptions]

SUGGESTED_CHANGES:
- [Specific suggestions for improvement]

OVERALL_ASSESSMENT:
[` + string(AssessmentPromisingButFlawed) + ` / ` + string(AssessmentSoundSolution) + ` / ` + string(AssessmentFundamentallyFlawed) + `]
`

const refinementTemplate = `Problem: %s

Your original solution:
%s

Peer reviews you received:

Review 1 (from %s):
%s

Review 2 (from %s):
%s

Address each critique and produce your refined solution. Structure as:

RESPONSE_TO_CRITIQUES:
- [For each critique, explain whether you accept it and what changes you made]

REFINED_REASONING:
[Your improved step-by-step reasoning]

REFINED_ANSWER:
[Your final answer]

CONFIDENCE:
[Your confidence level from 0 to 1]
`

const judgmentTemplate = `Problem: %s

You are judging three solutions to this problem.

SOLVER 1 REFINED SOLUTION:
%s

SOLVER 2 REFINED SOLUTION:
%s

SOLVER 3 REFINED SOLUTION:
%s

Evaluate all solutions and determine which is best. Provide:

ANALYSIS:
[Compare the solutions, identify strengths and weaknesses of each]

WINNER:
[Solver_1, Solver_2, or Solver_3]

REASONING:
[Explain why this solution is best]

CONFIDENCE:
[Your confidence in this judgment from 0 to 1]

FINAL_ANSWER:
[The answer from the winning solution]
`

func solutionPrompt(p Problem) string {
	return fmt.Sprintf(solutionTemplate, p.Question)
}

func reviewPrompt(p Problem, target SolverID, solution, reviewerRole string) string {
	return fmt.Sprintf(reviewTemplate, p.Question, target, solution, reviewerRole)
}

func refinementPrompt(p Problem, original string, reviews []ReviewRecord) string {
	return fmt.Sprintf(refinementTemplate, p.Question, original,
		reviews[0].From, reviews[0].Review,
		reviews[1].From, reviews[1].Review)
}

func judgmentPrompt(p Problem, refined map[SolverID]RefinedSolution) string {
	return fmt.Sprintf(judgmentTemplate, p.Question,
		refined[Solver1].Refined,
		refined[Solver2].Refined,
		refined[Solver3].Refined)
}
