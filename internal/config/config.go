// Package config loads and validates ob2gfm YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength  = 4096 // Directory paths
	MaxURLLength   = 2048 // Browser limit
	MaxTitleLength = 200  // Preview title
	MaxNameLength  = 100  // Style name
)

// Timeout bounds for render requests.
const (
	MinRenderTimeout = time.Second
	MaxRenderTimeout = 10 * time.Minute
)

// Config holds all configuration for conversion and preview.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Images  ImagesConfig  `yaml:"images"`
	Render  RenderConfig  `yaml:"render"`
	Preview PreviewConfig `yaml:"preview"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = next to source)
}

// ImagesConfig defines image rewriting options.
type ImagesConfig struct {
	Dir string `yaml:"dir"` // Prefix for local image names (empty = "Docs")
}

// RenderConfig defines preview rendering options.
type RenderConfig struct {
	URL     string   `yaml:"url"`     // Render service endpoint (empty = built-in default)
	Timeout Duration `yaml:"timeout"` // Per-request timeout (0 = 30s)
	Local   bool     `yaml:"local"`   // Render with Goldmark instead of the service
}

// PreviewConfig defines preview document options.
type PreviewConfig struct {
	Enabled   bool   `yaml:"enabled"`   // Write <name>.html next to each output
	Title     string `yaml:"title"`     // Document title (empty = file name)
	Style     string `yaml:"style"`     // Style name or CSS path (empty = "github")
	AssetPath string `yaml:"assetPath"` // Directory overriding embedded assets
	NoMath    bool   `yaml:"noMath"`    // Skip MathJax typesetting
}

// Duration is a time.Duration that decodes from strings such as "30s".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidValue, text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("images.dir", c.Images.Dir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("render.url", c.Render.URL, MaxURLLength); err != nil {
		return err
	}
	if c.Render.URL != "" {
		lower := strings.ToLower(c.Render.URL)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return fmt.Errorf("%w: render.url %q must start with http:// or https://", ErrInvalidValue, c.Render.URL)
		}
	}
	if t := time.Duration(c.Render.Timeout); t != 0 && (t < MinRenderTimeout || t > MaxRenderTimeout) {
		return fmt.Errorf("%w: render.timeout must be between %v and %v, got %v",
			ErrInvalidValue, MinRenderTimeout, MaxRenderTimeout, t)
	}

	if err := validateFieldLength("preview.title", c.Preview.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.style", c.Preview.Style, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.assetPath", c.Preview.AssetPath, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: no default directories,
// remote rendering with built-in defaults, preview disabled.
func DefaultConfig() *Config {
	return &Config{
		Input:   InputConfig{DefaultDir: ""},
		Output:  OutputConfig{DefaultDir: ""},
		Images:  ImagesConfig{Dir: ""},
		Render:  RenderConfig{},
		Preview: PreviewConfig{Enabled: false},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := unmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the files LoadConfig tries for a config name, in order.
// Tries extensions .yaml then .yml, in the current directory then
// ~/.config/go-ob2gfm/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-ob2gfm", name+ext))
		}
	}

	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
