// Package pipeline implements the Obsidian-to-GitHub Markdown transformation
// and the preview rendering helpers around it.
//
// The transformation is a fixed sequence of pure string passes:
//   - AddLineBreaks: hard breaks and <br> separators outside code and math
//   - TransformMath: $$...$$ to ```math fences, $...$ to $`...`$
//   - ImageRewriter: ![width](path) to sized <img> tags
//   - RemoveTabsOutsideFences: drop tabs outside fenced blocks
//
// Passes that need protected ranges locate them on their own input through a
// Locator. Ranges are never carried from one pass to the next, because every
// rewrite shifts byte offsets. Block detection is delimiter matching, not
// parsing: unbalanced delimiters give surprising but well-defined output.
//
// The preview side renders GFM locally with Goldmark, rewrites math for
// MathJax (MathJaxTypesetter) and wraps the fragment in a standalone document
// (PreviewInjection). Remote rendering lives in internal/render.
package pipeline
