package pipeline

import "strings"

// RemoveTabsOutsideFences drops tab characters that are not inside a fenced
// block. Fence ranges are located on content itself, so callers must pass the
// document as it stands after earlier rewrites. Math spans are not protected.
func RemoveTabsOutsideFences(content string, fences Locator) string {
	if !strings.Contains(content, "\t") {
		return content
	}

	ranges := fences.Locate(content)

	var b strings.Builder
	b.Grow(len(content))
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '\t' && !Inside(i, ranges) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
