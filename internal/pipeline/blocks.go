package pipeline

import (
	"regexp"
	"sort"
)

// Precompiled block patterns. Both are non-greedy delimiter pairs spanning
// newlines; they count delimiters and do not parse Markdown or LaTeX.
var (
	// $...$ or $$...$$
	mathSpanPattern = regexp.MustCompile(`(?s)\${1,2}.*?\${1,2}`)

	// ```...``` including the backticks
	fencedBlockPattern = regexp.MustCompile("(?s)```.*?```")
)

// Range is a half-open interval [Start, End) of byte offsets into a document.
type Range struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// Locator finds protected ranges in a document.
// Implementations must return non-overlapping ranges ordered by Start and
// must not fail: malformed input yields no range or a wider one, never an error.
type Locator interface {
	Locate(content string) []Range
}

// RegexpLocator reports every non-overlapping match of a pattern, left to right.
type RegexpLocator struct {
	pattern *regexp.Regexp
}

// NewRegexpLocator creates a locator backed by the given pattern.
func NewRegexpLocator(pattern *regexp.Regexp) *RegexpLocator {
	return &RegexpLocator{pattern: pattern}
}

// Locate returns the byte ranges of all matches.
func (l *RegexpLocator) Locate(content string) []Range {
	matches := l.pattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	ranges := make([]Range, 0, len(matches))
	for _, m := range matches {
		ranges = append(ranges, Range{Start: m[0], End: m[1]})
	}
	return ranges
}

// MathLocator finds single- and double-dollar math spans.
func MathLocator() *RegexpLocator {
	return NewRegexpLocator(mathSpanPattern)
}

// FenceLocator finds triple-backtick fenced blocks, delimiters included.
func FenceLocator() *RegexpLocator {
	return NewRegexpLocator(fencedBlockPattern)
}

// Inside reports whether offset falls within any of the ranges.
// ranges must be ordered by Start and non-overlapping, as Locate returns them.
func Inside(offset int, ranges []Range) bool {
	// First range ending after offset; only it can contain offset.
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].End > offset })
	return i < len(ranges) && ranges[i].Contains(offset)
}

// Compile-time interface check.
var _ Locator = (*RegexpLocator)(nil)
