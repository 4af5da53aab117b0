package assets

import (
	"fmt"
	"strings"
)

// maxAssetNameLength bounds asset names; they become file names.
const maxAssetNameLength = 100

// ValidateAssetName checks that name can be used as a bare file name.
// Dots are rejected so callers cannot swap the extension or climb with "..".
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: name longer than %d bytes", ErrInvalidAssetName, maxAssetNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
