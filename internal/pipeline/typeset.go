package pipeline

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Typesetter is an optional post-render pass over preview HTML.
type Typesetter interface {
	Typeset(ctx context.Context, htmlContent string) (string, error)
}

// MathJaxTypesetter rewrites rendered math into MathJax delimiters so a page
// script can typeset it:
//   - <pre lang="math"> and <pre><code class="language-math"> become
//     <div class="math display">\[...\]</div>
//   - $<code>...</code>$ becomes <span class="math inline">\(...\)</span>
type MathJaxTypesetter struct{}

// Typeset rewrites math nodes in htmlContent. Content without math is
// returned unchanged.
func (t *MathJaxTypesetter) Typeset(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.Contains(htmlContent, "math") && !strings.Contains(htmlContent, "$<code") {
		return htmlContent, nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	var blocks, inlines []*html.Node
	collectMath(doc, &blocks, &inlines)
	if len(blocks) == 0 && len(inlines) == 0 {
		return htmlContent, nil
	}

	for _, pre := range blocks {
		replaceDisplayMath(pre)
	}
	for _, code := range inlines {
		replaceInlineMath(code)
	}

	return renderHTML(doc, isFragment)
}

// collectMath gathers display blocks and inline code spans holding math.
// Nodes are collected first and rewritten afterwards so the tree is not
// mutated during traversal.
func collectMath(n *html.Node, blocks, inlines *[]*html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Pre:
			if isDisplayMath(n) {
				*blocks = append(*blocks, n)
			}
			// Code inside <pre> is never inline math.
			return
		case atom.Code:
			if isInlineMath(n) {
				*inlines = append(*inlines, n)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectMath(c, blocks, inlines)
	}
}

// isDisplayMath reports whether a <pre> holds a math fence.
func isDisplayMath(pre *html.Node) bool {
	if attr(pre, "lang") == "math" {
		return true
	}
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Code && hasClass(c, "language-math") {
			return true
		}
	}
	return false
}

// isInlineMath reports whether a <code> sits between "$" delimiters.
func isInlineMath(code *html.Node) bool {
	prev, next := code.PrevSibling, code.NextSibling
	return prev != nil && prev.Type == html.TextNode && strings.HasSuffix(prev.Data, "$") &&
		next != nil && next.Type == html.TextNode && strings.HasPrefix(next.Data, "$")
}

func replaceDisplayMath(pre *html.Node) {
	div := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     []html.Attribute{{Key: "class", Val: "math display"}},
	}
	div.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: `\[` + strings.TrimSpace(textContent(pre)) + `\]`,
	})
	pre.Parent.InsertBefore(div, pre)
	pre.Parent.RemoveChild(pre)
}

func replaceInlineMath(code *html.Node) {
	prev, next := code.PrevSibling, code.NextSibling
	prev.Data = strings.TrimSuffix(prev.Data, "$")
	next.Data = strings.TrimPrefix(next.Data, "$")

	span := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
		Attr:     []html.Attribute{{Key: "class", Val: "math inline"}},
	}
	span.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: `\(` + textContent(code) + `\)`,
	})
	code.Parent.InsertBefore(span, code)
	code.Parent.RemoveChild(code)
}

// textContent concatenates all descendant text.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ Typesetter = (*MathJaxTypesetter)(nil)
