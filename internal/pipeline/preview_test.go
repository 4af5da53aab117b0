package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const testPreviewTemplate = `<title>{{.Title}}</title><style>{{.CSS}}</style>{{if .MathJax}}<script src="mathjax"></script>{{end}}<main>{{.Body}}</main>`

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"no escape needed", "body { color: red; }", "body { color: red; }"},
		{"closing style tag", "a{}</style><script>", `a{}<\/style><script>`},
		{"multiple", "</a</b", `<\/a<\/b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPreviewInjection_InjectPreview(t *testing.T) {
	t.Parallel()

	p, err := NewPreviewInjection(testPreviewTemplate)
	if err != nil {
		t.Fatalf("NewPreviewInjection() error = %v", err)
	}

	tests := []struct {
		name     string
		data     *PreviewData
		contains []string
		excludes []string
	}{
		{
			name:     "title and body",
			data:     &PreviewData{Title: "Notes", Body: "<p>hi</p>", MathJax: true},
			contains: []string{"<title>Notes</title>", "<main><p>hi</p></main>", "mathjax"},
		},
		{
			name:     "default title",
			data:     &PreviewData{},
			contains: []string{"<title>Preview</title>"},
			excludes: []string{"mathjax"},
		},
		{
			name:     "nil data",
			data:     nil,
			contains: []string{"<title>Preview</title>"},
		},
		{
			name:     "title is escaped",
			data:     &PreviewData{Title: "<b>x</b>"},
			contains: []string{"&lt;b&gt;x&lt;/b&gt;"},
		},
		{
			name:     "css cannot close style",
			data:     &PreviewData{CSS: "p{}</style><script>alert(1)</script>"},
			excludes: []string{"</style><script>alert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.InjectPreview(context.Background(), tt.data)
			if err != nil {
				t.Fatalf("InjectPreview() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestNewPreviewInjection_InvalidTemplate(t *testing.T) {
	t.Parallel()

	if _, err := NewPreviewInjection("{{.Title"); err == nil {
		t.Error("expected parse error")
	}
}

func TestPreviewInjection_ExecuteError(t *testing.T) {
	t.Parallel()

	p, err := NewPreviewInjection("{{.Missing}}")
	if err != nil {
		t.Fatalf("NewPreviewInjection() error = %v", err)
	}
	if _, err := p.InjectPreview(context.Background(), &PreviewData{}); !errors.Is(err, ErrPreviewRender) {
		t.Errorf("error = %v, want ErrPreviewRender", err)
	}
}

func TestPreviewInjection_CancelledContext(t *testing.T) {
	t.Parallel()

	p, _ := NewPreviewInjection(testPreviewTemplate)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.InjectPreview(ctx, &PreviewData{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRenderErrorHTML(t *testing.T) {
	t.Parallel()

	got := RenderErrorHTML(errors.New(`status 502: <bad gateway> & "more"`))
	want := `<pre class="render-error">Render error: status 502: &lt;bad gateway&gt; &amp; &#34;more&#34;</pre>`
	if got != want {
		t.Errorf("RenderErrorHTML() = %q, want %q", got, want)
	}
}
