package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single element",
			input:    []string{"CSE"},
			expected: []string{"CSE"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  CSE  ", "ECE  ", "  MECH"},
			expected: []string{"CSE", "ECE", "MECH"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"CSE", "ECE", "CSE", "MECH", "ECE"},
			expected: []string{"CSE", "ECE", "MECH"},
		},
		{
			name:     "drops empty and whitespace-only entries",
			input:    []string{"", "CSE", "   ", "ECE"},
			expected: []string{"CSE", "ECE"},
		},
		{
			name:     "duplicate after trimming",
			input:    []string{"CSE", "  CSE  "},
			expected: []string{"CSE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
