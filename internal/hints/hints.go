// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForRenderFailure returns hints for a failed preview render.
// Suggests offline rendering unless it is already in use, and the URL
// override when the environment does not set one.
func ForRenderFailure(local bool) string {
	if local {
		return ""
	}

	hints := []string{"use --local to render the preview offline"}
	if os.Getenv("OB2GFM_RENDER_URL") == "" {
		hints = append(hints, "set OB2GFM_RENDER_URL or --render-url to use another service")
	}
	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-ob2gfm/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-ob2gfm) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-ob2gfm") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownCommand suggests the command cmd most likely abbreviates or
// extends, or the help command when none matches.
func ForUnknownCommand(cmd string, commands []string) string {
	if cmd != "" {
		for _, c := range commands {
			if strings.HasPrefix(c, cmd) || strings.HasPrefix(cmd, c) {
				return format("did you mean '" + c + "'?")
			}
		}
	}
	return format("run 'ob2gfm help' for a list of commands")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
