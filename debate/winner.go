package debate

import "regexp"

// winnerPattern locates the WINNER section of a judgment and captures the
// declared solver identity. Judgment text is free-form model output, so this
// is best-effort.
var winnerPattern = regexp.MustCompile(`(?i)WINNER:\s*\n?\s*\[?\s*Solver_([123])`)

// ExtractWinner scans a judgment for its WINNER declaration. The second
// return is false when no well-formed declaration is present.
func ExtractWinner(judgment string) (SolverID, bool) {
	m := winnerPattern.FindStringSubmatch(judgment)
	if m == nil {
		return 0, false
	}
	return ParseSolverID("Solver_" + m[1])
}
