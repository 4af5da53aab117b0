package pipeline

import (
	"context"
	"strings"
)

// MarkdownTransformer defines the contract for Obsidian-to-GFM transformation.
type MarkdownTransformer interface {
	Transform(ctx context.Context, content string) string
}

// ObsidianTransformer rewrites Obsidian Markdown into GitHub-flavored Markdown.
// The zero value is ready to use and applies the default locators.
type ObsidianTransformer struct {
	// MathLocator and FenceLocator override block detection. Nil means the
	// package defaults.
	MathLocator  Locator
	FenceLocator Locator

	// ImageDir prefixes local image names. Empty means DefaultImageDir.
	ImageDir string
}

// Transform applies every pass in order: line breaks, math delimiters, image
// syntax, tab stripping. Each pass locates its protected ranges on its own
// input, since earlier rewrites shift offsets.
//
// The passes are synchronous and always complete; ctx is not consulted.
// Callers that honor cancellation check it before and after.
func (t *ObsidianTransformer) Transform(_ context.Context, content string) string {
	math, fences := t.locators()

	content = normalizeLineEndings(content)
	content = AddLineBreaks(content, math, fences)
	content = TransformMath(content)
	content = (&ImageRewriter{Dir: t.ImageDir}).Rewrite(content)
	content = RemoveTabsOutsideFences(content, fences)
	return content
}

func (t *ObsidianTransformer) locators() (math, fences Locator) {
	math, fences = t.MathLocator, t.FenceLocator
	if math == nil {
		math = MathLocator()
	}
	if fences == nil {
		fences = FenceLocator()
	}
	return math, fences
}

// ConvertObsidianToGFM runs the full transformation with default settings.
func ConvertObsidianToGFM(content string) string {
	return (&ObsidianTransformer{}).Transform(context.Background(), content)
}

// normalizeLineEndings converts \r\n to \n. Lone \r bytes are content and
// are kept, including inside fenced blocks.
func normalizeLineEndings(content string) string {
	return strings.ReplaceAll(content, "\r\n", "\n")
}

// Compile-time interface check.
var _ MarkdownTransformer = (*ObsidianTransformer)(nil)
