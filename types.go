package ob2gfm

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alnah/go-ob2gfm/internal/pipeline"
)

// Range is a half-open interval [Start, End) of byte offsets into a document.
type Range = pipeline.Range

// Locator finds protected ranges (fenced code, math) in a document.
// Implementations must be total: malformed input yields no range, never an error.
type Locator = pipeline.Locator

// Renderer turns GitHub-flavored Markdown into an HTML fragment.
type Renderer interface {
	ToHTML(ctx context.Context, markdown string) (string, error)
}

// Typesetter post-processes rendered HTML, e.g. to prepare math for MathJax.
type Typesetter interface {
	Typeset(ctx context.Context, htmlContent string) (string, error)
}

// Input contains conversion parameters.
type Input struct {
	Markdown string // Obsidian Markdown; empty is valid
	Preview  bool   // Render an HTML preview of the result
	Title    string // Preview document title (default: "Preview")
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	// Markdown is the GitHub-flavored Markdown, byte for byte what a saved
	// .md file contains.
	Markdown string

	// HTML is the standalone preview document. Empty unless Input.Preview.
	// When rendering fails it shows the error message instead of content.
	HTML string

	// RenderErr is set when the preview could not be rendered. It wraps
	// ErrRender and does not affect Markdown.
	RenderErr error
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout     time.Duration
	renderURL   string
	httpClient  *http.Client
	local       bool
	styleInput  string
	assetPath   string
	noStyle     bool
	noTypeset   bool
	imageDir    string
	mathLocator Locator
	fenceLoc    Locator
}

// defaultTimeout bounds a single render request.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the render request timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("ob2gfm: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithRenderURL sets the remote render service endpoint.
func WithRenderURL(url string) Option {
	return func(c *Converter) {
		c.cfg.renderURL = url
	}
}

// WithHTTPClient sets the client used for remote rendering.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) {
		c.cfg.httpClient = client
	}
}

// WithLocalRenderer renders previews in-process with Goldmark instead of
// calling the remote service.
func WithLocalRenderer() Option {
	return func(c *Converter) {
		c.cfg.local = true
	}
}

// WithRenderer replaces the preview renderer entirely.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithTypesetter replaces the math typesetter. Nil disables typesetting.
func WithTypesetter(t Typesetter) Option {
	return func(c *Converter) {
		c.typesetter = t
		c.cfg.noTypeset = t == nil
	}
}

// WithImageDir sets the directory prefixed to local image names (default "Docs").
func WithImageDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.imageDir = dir
	}
}

// WithMathLocator replaces math span detection.
func WithMathLocator(l Locator) Option {
	return func(c *Converter) {
		c.cfg.mathLocator = l
	}
}

// WithFenceLocator replaces fenced code block detection.
func WithFenceLocator(l Locator) Option {
	return func(c *Converter) {
		c.cfg.fenceLoc = l
	}
}

// WithStyle sets the preview stylesheet: a style name or a CSS file path.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = nameOrPath
	}
}

// WithoutStyle disables the preview stylesheet.
func WithoutStyle() Option {
	return func(c *Converter) {
		c.cfg.noStyle = true
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded preview assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithLogger sets the structured logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}
