package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain question unchanged",
			input:    "What is the total revenue?",
			expected: "What is the total revenue?",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  How many purchase orders?  ",
			expected: "How many purchase orders?",
		},
		{
			name:     "internal runs collapse to one space",
			input:    "Show    all \t vendors",
			expected: "Show all vendors",
		},
		{
			name:     "newlines collapse",
			input:    "List payors\nwith active\ncontracts",
			expected: "List payors with active contracts",
		},
		{
			name:     "line comment stripped",
			input:    "Show revenue   \n-- comment\n this quarter",
			expected: "Show revenue this quarter",
		},
		{
			name:     "line comment at end of input",
			input:    "Total deposits -- just checking",
			expected: "Total deposits",
		},
		{
			name:     "block comment stripped",
			input:    "Show /* inline note */ net profit",
			expected: "Show net profit",
		},
		{
			name:     "block comment spanning lines",
			input:    "Count items /* first\nsecond\nthird */ per order",
			expected: "Count items per order",
		},
		{
			name:     "multiple comments",
			input:    "-- header\nWhich vendor /* a */ charged the most? -- footer",
			expected: "Which vendor charged the most?",
		},
		{
			name:     "unterminated block comment kept",
			input:    "Show balance /* dangling",
			expected: "Show balance /* dangling",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    " \t\n ",
			expected: "",
		},
		{
			name:     "comment only",
			input:    "-- nothing but a comment",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Show revenue   \n-- comment\n this quarter",
		"  spaced   out   question  ",
		"plain",
		"",
		"/* a */ -- b",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "normalizing %q twice should be stable", input)
	}
}
