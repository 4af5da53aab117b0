package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-ob2gfm/internal/config"
)

// envPrefix namespaces the environment variables read by ob2gfm.
const envPrefix = "OB2GFM_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string        // OB2GFM_CONFIG
	RenderURL  string        // OB2GFM_RENDER_URL
	Timeout    time.Duration // OB2GFM_TIMEOUT
	InputDir   string        // OB2GFM_INPUT_DIR
	OutputDir  string        // OB2GFM_OUTPUT_DIR
	ImageDir   string        // OB2GFM_IMAGE_DIR
	Style      string        // OB2GFM_STYLE
	Workers    int           // OB2GFM_WORKERS
}

// knownEnvVars lists the recognized OB2GFM_* variables.
var knownEnvVars = map[string]bool{
	"OB2GFM_CONFIG":     true,
	"OB2GFM_RENDER_URL": true,
	"OB2GFM_TIMEOUT":    true,
	"OB2GFM_INPUT_DIR":  true,
	"OB2GFM_OUTPUT_DIR": true,
	"OB2GFM_IMAGE_DIR":  true,
	"OB2GFM_STYLE":      true,
	"OB2GFM_WORKERS":    true,
}

// loadEnvConfig reads the OB2GFM_* variables. Unparseable timeout and
// worker values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("OB2GFM_CONFIG"),
		RenderURL:  os.Getenv("OB2GFM_RENDER_URL"),
		InputDir:   os.Getenv("OB2GFM_INPUT_DIR"),
		OutputDir:  os.Getenv("OB2GFM_OUTPUT_DIR"),
		ImageDir:   os.Getenv("OB2GFM_IMAGE_DIR"),
		Style:      os.Getenv("OB2GFM_STYLE"),
	}

	if timeout := os.Getenv("OB2GFM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("OB2GFM_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized OB2GFM_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays environment values on cfg.
// Precedence: CLI flags > environment > config file > defaults;
// flags are applied afterwards by mergeFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.RenderURL != "" {
		cfg.Render.URL = env.RenderURL
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = config.Duration(env.Timeout)
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.ImageDir != "" {
		cfg.Images.Dir = env.ImageDir
	}
	if env.Style != "" {
		cfg.Preview.Style = env.Style
	}
}
