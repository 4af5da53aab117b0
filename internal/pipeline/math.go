package pipeline

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// mathMatchTimeout bounds a single backtracking match.
const mathMatchTimeout = 5 * time.Second

// Math patterns need lookaround, which RE2 lacks, so they use regexp2.
var (
	// $$...$$, possibly spanning lines
	displayMathPattern = mustCompileMath(`\$\$([\s\S]*?)\$\$`)

	// $...$ where neither delimiter touches another $
	inlineMathPattern = mustCompileMath(`(?<!\$)\$(?!\$)([\s\S]*?)(?<!\$)\$(?!\$)`)
)

func mustCompileMath(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = mathMatchTimeout
	return re
}

// TransformMath rewrites $$...$$ into ```math fenced blocks, then the
// remaining $...$ spans into $`...`$ inline code math.
func TransformMath(content string) string {
	content = replaceMath(displayMathPattern, content, func(inner string) string {
		return "\n```math\n" + strings.TrimSpace(inner) + "\n```\n"
	})
	content = replaceMath(inlineMathPattern, content, func(inner string) string {
		return "$`" + inner + "`$"
	})
	return content
}

// replaceMath substitutes every match of re using the first capture group.
// On a regexp2 timeout the content is returned as it was.
func replaceMath(re *regexp2.Regexp, content string, build func(inner string) string) string {
	out, err := re.ReplaceFunc(content, func(m regexp2.Match) string {
		return build(m.GroupByNumber(1).String())
	}, -1, -1)
	if err != nil {
		return content
	}
	return out
}
