package pipeline

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultImageDir is where local images are expected in the GitHub repository.
const DefaultImageDir = "Docs"

var (
	// ![600](path) sized image shorthand
	sizedImagePattern = regexp.MustCompile(`!\[(\d+)\]\((.*?)\)`)

	// Absolute web URL, scheme case-insensitive
	webURLPattern = regexp.MustCompile(`(?i)^https?://`)
)

// ImageRewriter converts sized image shorthand into <img> tags.
type ImageRewriter struct {
	// Dir prefixes local image file names. Empty means DefaultImageDir.
	Dir string
}

// ConvertImages rewrites ![width](path) using DefaultImageDir.
func ConvertImages(content string) string {
	return (&ImageRewriter{}).Rewrite(content)
}

// Rewrite replaces every ![width](path) occurrence.
// Web URLs are kept; local paths are percent-decoded and reduced to their
// last segment under Dir. A path that fails to decode, or decodes to
// invalid UTF-8, is kept raw.
func (r *ImageRewriter) Rewrite(content string) string {
	dir := strings.TrimSuffix(r.Dir, "/")
	if dir == "" {
		dir = DefaultImageDir
	}

	return sizedImagePattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := sizedImagePattern.FindStringSubmatch(match)
		width, path := sub[1], sub[2]
		return imgTag(resolveImageSrc(path, dir), width)
	})
}

// resolveImageSrc returns the src attribute for an image path.
func resolveImageSrc(path, dir string) string {
	if webURLPattern.MatchString(path) {
		return path
	}

	decoded, err := url.PathUnescape(path)
	if err != nil || !utf8.ValidString(decoded) {
		return path
	}

	segments := strings.Split(decoded, "/")
	return dir + "/" + segments[len(segments)-1]
}

func imgTag(src, width string) string {
	return `<img src="` + src + `" width="` + width + `">` + "\n"
}
