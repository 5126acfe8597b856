// Package eval grades recorded debate results against ground truth. It is a
// strictly offline consumer of judgment records: nothing here feeds back
// into orchestration.
//
// Both extraction and grading are layered best-effort heuristics over
// free-form model output. They never fail; ambiguity degrades to a
// best-effort value or to "incorrect".
package eval

import (
	"regexp"
	"strings"
)

// Extraction patterns, tried in priority order. The captured group is
// non-greedy up to a blank line or end of text; matching is
// case-insensitive with newlines allowed inside the capture.
var extractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)FINAL_ANSWER:\s*\n?\s*(.+?)(?:\n\n|$)`),
	regexp.MustCompile(`(?is)ANSWER:\s*\n?\s*(.+?)(?:\n\n|$)`),
	regexp.MustCompile(`(?i)(?:The answer is|answer is|equals?)\s*:?\s*([^\n]+)`),
}

// ExtractAnswer locates the final answer in free-form judgment or solution
// text. On the first pattern that matches, only the first line of the
// capture is returned, trimmed. With no pattern match it falls back to the
// last non-empty line that is not a CONFIDENCE heading, and finally to the
// whole trimmed text. It never fails.
func ExtractAnswer(text string) string {
	for _, pattern := range extractPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			answer := strings.TrimSpace(m[1])
			if i := strings.IndexByte(answer, '\n'); i >= 0 {
				answer = strings.TrimSpace(answer[:i])
			}
			return answer
		}
	}

	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && !strings.HasPrefix(line, "CONFIDENCE") {
			return line
		}
	}

	return strings.TrimSpace(text)
}
