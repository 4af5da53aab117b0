package pipeline

import "strings"

// ParagraphBreak is appended after blank lines and lines that precede math.
// The surrounding newlines keep the <br> on its own line.
const ParagraphBreak = "\n<br>\n"

// hardBreak is the GFM trailing-spaces line break.
const hardBreak = "  "

// AddLineBreaks appends a hard line break or a paragraph break to every line
// whose first byte lies outside the math and fence ranges of content.
//
// Offsets are tracked against the original content (len(line)+1 per line),
// not against the growing output, so they stay aligned with the ranges.
func AddLineBreaks(content string, math, fences Locator) string {
	mathRanges := math.Locate(content)
	fenceRanges := fences.Locate(content)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	offset := 0

	for i, line := range lines {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		switch {
		case Inside(offset, mathRanges) || Inside(offset, fenceRanges):
			out = append(out, line)
		case isBlankLine(line) || precedesMath(next):
			out = append(out, line+ParagraphBreak)
		default:
			out = append(out, line+hardBreak)
		}

		offset += len(line) + 1
	}

	return strings.Join(out, "\n")
}

// precedesMath reports whether the next line opens inline or display math.
// A "$$" prefix is also a "$" prefix.
func precedesMath(next string) bool {
	return strings.HasPrefix(strings.TrimSpace(next), "$")
}

// isBlankLine returns true if the line is empty or contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
