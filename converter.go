package ob2gfm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-ob2gfm/internal/assets"
	"github.com/alnah/go-ob2gfm/internal/fileutil"
	"github.com/alnah/go-ob2gfm/internal/pipeline"
	"github.com/alnah/go-ob2gfm/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownTransformer = (*pipeline.ObsidianTransformer)(nil)
	_ Renderer                     = (*pipeline.GoldmarkConverter)(nil)
	_ Renderer                     = (*render.RemoteRenderer)(nil)
	_ Typesetter                   = (*pipeline.MathJaxTypesetter)(nil)
	_ pipeline.PreviewInjector     = (*pipeline.PreviewInjection)(nil)
)

// Converter turns Obsidian Markdown into GitHub-flavored Markdown and
// optionally renders a preview. A Converter holds no per-call state and is
// safe for concurrent use.
type Converter struct {
	cfg             converterConfig
	logger          *slog.Logger
	transformer     pipeline.MarkdownTransformer
	renderer        Renderer
	typesetter      Typesetter
	previewInjector pipeline.PreviewInjector
	assetLoader     assets.AssetLoader
	css             string
}

// NewConverter creates a Converter with default configuration: remote
// rendering against render.DefaultURL, MathJax typesetting and the embedded
// "github" preview style.
// Returns error if asset loading or template parsing fails.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         converterConfig{timeout: defaultTimeout},
		logger:      slog.New(slog.DiscardHandler),
		assetLoader: assets.NewEmbeddedLoader(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.renderURL != "" && !fileutil.IsURL(c.cfg.renderURL) {
		return nil, fmt.Errorf("%w: %q (must start with http:// or https://)", ErrInvalidRenderURL, c.cfg.renderURL)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	c.transformer = &pipeline.ObsidianTransformer{
		MathLocator:  c.cfg.mathLocator,
		FenceLocator: c.cfg.fenceLoc,
		ImageDir:     c.cfg.imageDir,
	}

	if c.renderer == nil {
		if c.cfg.local {
			c.renderer = pipeline.NewGoldmarkConverter()
		} else {
			c.renderer = render.NewRemoteRenderer(c.cfg.renderURL, c.cfg.httpClient)
		}
	}

	if c.typesetter == nil && !c.cfg.noTypeset {
		c.typesetter = &pipeline.MathJaxTypesetter{}
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	tmpl, err := c.assetLoader.LoadTemplate(assets.PreviewTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading preview template: %w", wrapAssetErr(err))
	}
	c.previewInjector, err = pipeline.NewPreviewInjection(tmpl)
	if err != nil {
		return nil, fmt.Errorf("initializing preview: %w", err)
	}

	return c, nil
}

// Transform converts Obsidian Markdown to GitHub-flavored Markdown with the
// default settings. It never fails.
func Transform(markdown string) string {
	return pipeline.ConvertObsidianToGFM(markdown)
}

// Convert runs the transformation and, if requested, the preview rendering.
//
// A render failure is not returned as err: it is reported in
// ConvertResult.RenderErr and the preview shows the error message, while
// ConvertResult.Markdown still holds the converted text. err is reserved for
// context cancellation and preview document failures.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	markdown := c.transformer.Transform(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.logger.Debug("transformed markdown",
		"input_bytes", len(input.Markdown),
		"output_bytes", len(markdown),
		"duration", time.Since(start))

	result = &ConvertResult{Markdown: markdown}
	if !input.Preview {
		return result, nil
	}

	fragment, renderErr := c.render(ctx, markdown)
	if renderErr != nil {
		// Cancellation by the caller is not a render failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("preview rendering failed", "error", renderErr)
		result.RenderErr = fmt.Errorf("%w: %w", ErrRender, renderErr)
		fragment = pipeline.RenderErrorHTML(renderErr)
	}

	doc, err := c.previewInjector.InjectPreview(ctx, &pipeline.PreviewData{
		Title:   input.Title,
		CSS:     c.css,
		Body:    fragment,
		MathJax: c.typesetter != nil && renderErr == nil,
	})
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrPreviewDocument, err)
	}
	result.HTML = doc
	return result, nil
}

// render produces the typeset HTML fragment for markdown.
// Typesetting failures are tolerated: the untypeset fragment is kept.
func (c *Converter) render(ctx context.Context, markdown string) (string, error) {
	renderCtx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	start := time.Now()
	fragment, err := c.renderer.ToHTML(renderCtx, markdown)
	if err != nil {
		return "", err
	}
	c.logger.Debug("rendered preview", "html_bytes", len(fragment), "duration", time.Since(start))

	if c.typesetter == nil {
		return fragment, nil
	}

	typeset, err := c.typesetter.Typeset(ctx, fragment)
	if err != nil {
		c.logger.Warn("math typesetting skipped", "error", err)
		return fragment, nil
	}
	return typeset, nil
}

// resolveStyle resolves the style input (name or path) to CSS content.
// Called during NewConverter after options are applied.
func (c *Converter) resolveStyle() error {
	if c.cfg.noStyle {
		return nil
	}

	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.css = string(content)
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, wrapAssetErr(err))
	}
	c.css = css
	return nil
}

// wrapAssetErr maps internal asset errors to the public sentinels.
func wrapAssetErr(err error) error {
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return fmt.Errorf("%w: %v", ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	default:
		return err
	}
}
