package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// ErrPreviewRender indicates the preview document template failed.
var ErrPreviewRender = errors.New("preview template rendering failed")

// DefaultPreviewTitle is used when PreviewData has no title.
const DefaultPreviewTitle = "Preview"

// PreviewData holds the values injected into the preview document template.
type PreviewData struct {
	Title   string
	CSS     string
	Body    string // Rendered HTML fragment, trusted
	MathJax bool   // Load the MathJax page script
}

// templatePreviewData is the escaped view passed to html/template.
type templatePreviewData struct {
	Title   string
	CSS     template.CSS
	Body    template.HTML
	MathJax bool
}

// PreviewInjector wraps rendered fragments in a standalone HTML document.
type PreviewInjector interface {
	InjectPreview(ctx context.Context, data *PreviewData) (string, error)
}

// PreviewInjection builds preview documents from an HTML template.
type PreviewInjection struct {
	tmpl *template.Template
}

// NewPreviewInjection parses the preview template.
func NewPreviewInjection(tmplContent string) (*PreviewInjection, error) {
	tmpl, err := template.New("preview").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing preview template: %w", err)
	}
	return &PreviewInjection{tmpl: tmpl}, nil
}

// InjectPreview renders the preview document.
// CSS content is sanitized to prevent breaking out of the <style> block.
func (p *PreviewInjection) InjectPreview(ctx context.Context, data *PreviewData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = &PreviewData{}
	}

	title := data.Title
	if title == "" {
		title = DefaultPreviewTitle
	}

	view := templatePreviewData{
		Title: title,
		// #nosec G203 -- CSS is sanitized, body comes from the renderer
		CSS:     template.CSS(sanitizeCSS(data.CSS)),
		Body:    template.HTML(data.Body), // #nosec G203
		MathJax: data.MathJax,
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}
	return buf.String(), nil
}

// RenderErrorHTML returns the fragment shown in place of a failed preview.
func RenderErrorHTML(err error) string {
	return `<pre class="render-error">Render error: ` + html.EscapeString(err.Error()) + `</pre>`
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	// Escape </ sequences to prevent closing the style tag prematurely
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Compile-time interface check.
var _ PreviewInjector = (*PreviewInjection)(nil)
