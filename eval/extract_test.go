package eval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "final answer section",
			text: "ANALYSIS:\nlong comparison\n\nFINAL_ANSWER:\n42\n\nCONFIDENCE:\n0.9",
			want: "42",
		},
		{
			name: "answer section",
			text: "REASONING:\nsteps here\n\nANSWER:\nx = 12\n\nCONFIDENCE:\n0.8",
			want: "x = 12",
		},
		{
			name: "final answer takes priority over answer",
			text: "ANSWER:\nwrong pick\n\nFINAL_ANSWER:\nright pick\n\n",
			want: "right pick",
		},
		{
			name: "inline phrase",
			text: "no structured markers here, the answer is 7",
			want: "7",
		},
		{
			name: "equals phrase",
			text: "after simplification the expression equals 3x + 1",
			want: "3x + 1",
		},
		{
			name: "multi-line capture keeps first line only",
			text: "FINAL_ANSWER:\nfirst line\nsecond line\n\nCONFIDENCE:\n1",
			want: "first line",
		},
		{
			name: "fallback skips confidence line",
			text: "some reasoning\nthe conclusion\nCONFIDENCE: 0.5",
			want: "the conclusion",
		},
		{
			name: "fallback to last non-empty line",
			text: "line one\nline two\n\n",
			want: "line two",
		},
		{
			name: "total non-match degrades to trimmed text",
			text: "   \n\n  ",
			want: "",
		},
		{
			name: "case insensitive headings",
			text: "final_answer:\nlowercase heading\n\n",
			want: "lowercase heading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAnswer(tt.text))
		})
	}
}

// Extraction is a total function: whatever the input, the result is a
// trimmed contiguous fragment of it.
func TestExtractAnswer_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		answer := ExtractAnswer(text)

		assert.Equal(t, strings.TrimSpace(answer), answer, "answer must be trimmed")
		if answer != "" {
			assert.True(t, strings.Contains(text, answer), "answer must come from the input")
		}
	})
}
