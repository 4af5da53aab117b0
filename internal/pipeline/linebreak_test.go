package pipeline

import "testing"

// fixedLocator reports the same ranges for any content.
type fixedLocator []Range

func (f fixedLocator) Locate(string) []Range { return f }

func TestAddLineBreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain lines get hard breaks",
			input:    "a\nb",
			expected: "a  \nb  ",
		},
		{
			name:     "blank line gets paragraph break",
			input:    "a\n\nb",
			expected: "a  \n\n<br>\n\nb  ",
		},
		{
			name:     "whitespace-only line is blank",
			input:    " \t",
			expected: " \t\n<br>\n",
		},
		{
			name:     "line before inline math",
			input:    "text\n$x$",
			expected: "text\n<br>\n\n$x$",
		},
		{
			name:     "indented opener lies before the math range",
			input:    "text\n  $$\nx\n$$",
			expected: "text\n<br>\n\n  $$  \nx\n$$",
		},
		{
			name:     "fenced block untouched",
			input:    "```\ncode\n```\nafter",
			expected: "```\ncode\n```\nafter  ",
		},
		{
			name:     "empty document",
			input:    "",
			expected: "\n<br>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := AddLineBreaks(tt.input, MathLocator(), FenceLocator())
			if got != tt.expected {
				t.Errorf("AddLineBreaks(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAddLineBreaks_UsesLocators(t *testing.T) {
	t.Parallel()

	// Second line starts at offset 2 and is protected.
	got := AddLineBreaks("a\nb\nc", fixedLocator{{Start: 2, End: 3}}, fixedLocator(nil))
	if want := "a  \nb\nc  "; got != want {
		t.Errorf("AddLineBreaks() = %q, want %q", got, want)
	}
}

func TestAddLineBreaks_OffsetsTrackOriginal(t *testing.T) {
	t.Parallel()

	// Many lines before the fence: offsets must not drift with the inserted breaks.
	input := "1\n2\n3\n4\n5\n```\nkeep\n```"
	want := "1  \n2  \n3  \n4  \n5  \n```\nkeep\n```"
	if got := AddLineBreaks(input, MathLocator(), FenceLocator()); got != want {
		t.Errorf("AddLineBreaks() = %q, want %q", got, want)
	}
}
