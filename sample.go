package ob2gfm

import "strings"

// Sample is a short Obsidian document exercising display math and a fenced
// code block. The CLI "sample" command converts it.
var Sample = strings.Join([]string{
	"# Sample document",
	"",
	"$$",
	`\int_0^1 x^2 \, dx = \frac{1}{3}`,
	"$$",
	"",
	"```python",
	`print("Hello World")`,
	"```",
	"",
}, "\n")
