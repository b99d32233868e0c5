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
			input:    []string{"foo"},
			expected: []string{"foo"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  eng  ", "tha  ", "  jpn"},
			expected: []string{"eng", "tha", "jpn"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"foo", "bar", "foo", "baz", "bar"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"foo", "", "  ", "bar"},
			expected: []string{"foo", "bar"},
		},
		{
			name:     "combined: trim, dedupe, remove empty",
			input:    []string{"  foo ", "bar", "foo", "", "  ", "bar"},
			expected: []string{"foo", "bar"},
		},
		{
			name:     "preserves case",
			input:    []string{"ENG", "eng", "Eng"},
			expected: []string{"ENG", "eng", "Eng"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		seps     string
		expected []string
	}{
		{
			name:     "empty input",
			raw:      "",
			seps:     ",",
			expected: nil,
		},
		{
			name:     "only separators and spaces",
			raw:      " , ,+ ",
			seps:     ",+",
			expected: nil,
		},
		{
			name:     "tesseract plus syntax",
			raw:      "eng+tha",
			seps:     ",+",
			expected: []string{"eng", "tha"},
		},
		{
			name:     "mixed separators with duplicates",
			raw:      "eng, tha+eng ,chi_sim",
			seps:     ",+",
			expected: []string{"eng", "tha", "chi_sim"},
		},
		{
			name:     "separator not listed is kept",
			raw:      "eng+tha",
			seps:     ",",
			expected: []string{"eng+tha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.raw, tt.seps))
		})
	}
}
