// Package ob2gfm converts Obsidian-flavored Markdown into GitHub-flavored
// Markdown and renders HTML previews of the result.
//
// # Quick Start
//
// The transformation alone is a pure function:
//
//	gfm := ob2gfm.Transform(obsidianText)
//
// For previews, create a Converter:
//
//	conv, err := ob2gfm.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, ob2gfm.Input{
//	    Markdown: "# Hello\n\n$$x^2$$",
//	    Preview:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("note.md", []byte(result.Markdown), 0644)
//	os.WriteFile("note.html", []byte(result.HTML), 0644)
//
// A failed render never loses the conversion: result.Markdown is always set
// and result.RenderErr reports what went wrong.
//
// # Transformation
//
// Four passes run in order over the text:
//
//  1. Line breaks: lines outside fenced code and math get two trailing
//     spaces, or a "<br>" paragraph separator when blank or followed by math
//  2. Math: $$...$$ becomes a ```math fenced block, $...$ becomes $`...`$
//  3. Images: ![600](path) becomes <img src="Docs/name" width="600">
//  4. Tabs: tab characters outside fenced code blocks are removed
//
// Protected regions are found with delimiter matching, not a Markdown
// parser. Replace the detection with WithMathLocator and WithFenceLocator.
//
// # Rendering
//
// Previews are rendered by a remote service (POST {"text": ...}, HTML back)
// or locally with Goldmark:
//
//	conv, err := ob2gfm.NewConverter(
//	    ob2gfm.WithLocalRenderer(),
//	    ob2gfm.WithTimeout(10 * time.Second),
//	)
//
// Rendered math is rewritten for MathJax by default; WithTypesetter(nil)
// turns that off.
package ob2gfm
