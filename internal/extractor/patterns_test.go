package extractor

import (
	"reflect"
	"testing"
)

func TestFindSeeds(t *testing.T) {
	grammar := NewLiberalGrammar()

	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "sentence punctuation is not part of the seed",
			text:     "visit http://example.com/page.",
			expected: []string{"http://example.com/page"},
		},
		{
			name:     "hyphen at line end stays",
			text:     "at http://example.com/foo-\nbar",
			expected: []string{"http://example.com/foo-"},
		},
		{
			name:     "duplicates collapse in order",
			text:     "https://b.org/x then http://a.com/y then https://b.org/x",
			expected: []string{"https://b.org/x", "http://a.com/y"},
		},
		{
			name:     "balanced parentheses",
			text:     "see http://en.example.org/wiki/Go_(language) now",
			expected: []string{"http://en.example.org/wiki/Go_(language)"},
		},
		{
			name:     "enclosing parentheses dropped",
			text:     "(http://example.com/x)",
			expected: []string{"http://example.com/x"},
		},
		{
			name:     "citation brackets dropped",
			text:     "http://example.com/x[12]",
			expected: []string{"http://example.com/x"},
		},
		{
			name:     "non-breaking space ends the seed",
			text:     "http://example.com/x\u00a0next",
			expected: []string{"http://example.com/x"},
		},
		{
			name:     "ideographic space ends the seed",
			text:     "http://example.com/y\u3000z",
			expected: []string{"http://example.com/y"},
		},
		{
			name:     "scheme-less host with path",
			text:     "clone github.com/acme/tool today",
			expected: []string{"github.com/acme/tool"},
		},
		{
			name:     "no URLs",
			text:     "plain words only",
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seeds := grammar.FindSeeds(tc.text)
			if !reflect.DeepEqual(seeds, tc.expected) {
				t.Errorf("Expected %q, got %q", tc.expected, seeds)
			}
		})
	}
}

func TestIsWellFormed(t *testing.T) {
	grammar := NewLiberalGrammar()

	testCases := []struct {
		input    string
		expected bool
	}{
		{"http://example.com", true},
		{"https://example.com/path?q=1#frag", true},
		{"http://example.com/page.", true},
		{"HTTP://EXAMPLE.COM/x", false},
		{"www.example.com/x", false},
		{"github.com/acme/tool", false},
		{"ftp://example.com/x", false},
		{"http://", false},
		{"httpfoo", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := grammar.IsWellFormed(tc.input); got != tc.expected {
				t.Errorf("IsWellFormed(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}
