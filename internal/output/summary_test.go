package output_test

import (
	"testing"

	"github.com/temirov/bundle/internal/output"
	"github.com/temirov/bundle/internal/types"
)

func TestFormatRunSummary(t *testing.T) {
	testCases := []struct {
		name     string
		summary  types.RunSummary
		expected string
	}{
		{
			name:     "plural without tokens",
			summary:  types.RunSummary{FileCount: 3, TotalBytes: 2048},
			expected: "Summary: 3 files, 2kb",
		},
		{
			name:     "singular with tokens and model",
			summary:  types.RunSummary{FileCount: 1, TotalBytes: 12, TokenCount: 7, ModelName: "gpt-4o"},
			expected: "Summary: 1 file, 12b, 7 tokens (model: gpt-4o)",
		},
		{
			name:     "empty run",
			summary:  types.RunSummary{},
			expected: "Summary: 0 files, 0b",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			formatted := output.FormatRunSummary(testCase.summary)
			if formatted != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, formatted)
			}
		})
	}
}
