package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags selects and tunes the preview renderer.
type renderFlags struct {
	url     string
	local   bool
	timeout string
}

// previewFlags holds preview document flags.
type previewFlags struct {
	enabled   bool
	title     string
	style     string
	assetPath string
	noMath    bool
}

// convertFlags holds all flags for the convert and sample commands.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	imageDir string
	watch    bool
	render   renderFlags
	preview  previewFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and debug logs")
}

// addRenderFlags adds renderer flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.url, "render-url", "", "render service endpoint")
	fs.BoolVar(&f.local, "local", false, "render the preview offline")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")
}

// addPreviewFlags adds preview document flags to a FlagSet.
func addPreviewFlags(fs *flag.FlagSet, f *previewFlags) {
	fs.BoolVar(&f.enabled, "preview", false, "write an HTML preview next to each output")
	fs.StringVar(&f.title, "title", "", "preview title (default: file name)")
	fs.StringVar(&f.style, "style", "", "preview style name or CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noMath, "no-math", false, "skip MathJax typesetting in the preview")
}

// newConvertFlagSet registers the convert flags on a new FlagSet named name.
func newConvertFlagSet(name string, f *convertFlags, usage func(io.Writer), w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)

	fs.StringVarP(&f.output, "output", "o", "", "output directory, or .md file for a single input")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.imageDir, "image-dir", "", "folder prefix for local images (default: Docs)")
	fs.BoolVar(&f.watch, "watch", false, "convert again when inputs change")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPreviewFlags(fs, &f.preview)

	fs.Usage = func() { usage(w) }
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet("convert", f, printConvertUsage, w)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSampleFlags parses sample command flags. The sample command takes
// the convert flags except --watch and --workers, which it ignores.
func parseSampleFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet("sample", f, printSampleUsage, w)
	_ = fs.MarkHidden("watch")
	_ = fs.MarkHidden("workers")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
