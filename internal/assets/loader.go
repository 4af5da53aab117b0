package assets

// AssetLoader loads preview styles and templates by name.
// Names carry no extension and no path components.
type AssetLoader interface {
	// LoadStyle returns CSS, or ErrStyleNotFound.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns an HTML template, or ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
}

// StyleLister is implemented by loaders that can enumerate their styles.
type StyleLister interface {
	ListStyles() []string
}
