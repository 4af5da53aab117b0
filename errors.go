package ob2gfm

import "errors"

// Sentinel errors for library operations.
var (
	// ErrRender wraps every preview rendering failure. The converted
	// Markdown is still returned alongside it.
	ErrRender = errors.New("preview rendering failed")

	// ErrPreviewDocument indicates the preview template could not be executed.
	ErrPreviewDocument = errors.New("preview document generation failed")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Option validation errors.
	ErrInvalidRenderURL = errors.New("invalid render URL")
)
