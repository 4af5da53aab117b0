package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "github", false},
		{"hyphen", "my-style", false},
		{"underscore", "my_style", false},
		{"digits", "style2", false},
		{"empty", "", true},
		{"dot", "style.css", true},
		{"double dot", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"absolute", "/etc/passwd", true},
		{"nul byte", "a\x00b", true},
		{"too long", strings.Repeat("a", maxAssetNameLength+1), true},
		{"at length limit", strings.Repeat("a", maxAssetNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}
