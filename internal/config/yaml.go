package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// maxConfigSize limits config input to prevent memory exhaustion (1MB).
var maxConfigSize = 1 << 20

var (
	errEmptyConfig   = errors.New("config file is empty")
	errConfigTooLong = errors.New("config file exceeds maximum size")
)

// unmarshalStrict decodes YAML into v, rejecting unknown fields.
// The goccy/go-yaml dependency is confined to this file.
func unmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return errEmptyConfig
	}
	if len(data) > maxConfigSize {
		return fmt.Errorf("%w: %d bytes (max %d)", errConfigTooLong, len(data), maxConfigSize)
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

// Marshal encodes a config as YAML, e.g. for printing the effective settings.
func Marshal(c *Config) ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return out, nil
}
