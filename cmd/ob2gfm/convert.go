package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	flag "github.com/spf13/pflag"

	ob2gfm "github.com/alnah/go-ob2gfm"
	"github.com/alnah/go-ob2gfm/internal/assets"
	"github.com/alnah/go-ob2gfm/internal/config"
	"github.com/alnah/go-ob2gfm/internal/fileutil"
	"github.com/alnah/go-ob2gfm/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoMarkdownFiles    = errors.New("no markdown files found")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteMarkdown      = errors.New("failed to write markdown file")
	ErrWritePreview       = errors.New("failed to write preview file")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrPreviewNeedsOutput = errors.New("--preview needs -o when the result goes to stdout")
	ErrWatchStdin         = errors.New("--watch cannot be used with stdin")
)

// stdinArg is the input argument that reads the note from stdin.
const stdinArg = "-"

// defaultRenderTimeout applies when neither flag, environment nor config sets one.
const defaultRenderTimeout = 30 * time.Second

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input ob2gfm.Input) (*ob2gfm.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*ob2gfm.Converter)(nil)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	preview bool
	title   string // Empty = derive from the file name
	local   bool   // Renders offline; selects render failure hints
}

// runConvertCmd parses the convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positionalArgs))
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, timeout, err := resolveSettings(flags, envCfg)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)
	params := paramsFromConfig(cfg)
	logger := env.newLogger(flags.common.verbose)

	if inputPath == stdinArg {
		if flags.watch {
			return fmt.Errorf("%w: %w", ErrUsage, ErrWatchStdin)
		}
		conv, err := newConverter(cfg, timeout, logger, env)
		if err != nil {
			return err
		}
		return convertStream(ctx, conv, env.Stdin, "stdin", flags.output, params, flags.common.quiet, env)
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputPath)
	}

	conv, err := newConverter(cfg, timeout, logger, env)
	if err != nil {
		return err
	}

	poolSize := ob2gfm.ResolvePoolSize(workers)
	logger.Debug("starting conversion", "files", len(files), "workers", poolSize, "output_dir", outputDir)

	results := convertBatch(ctx, conv, poolSize, files, params)
	batchErr := reportResults(results, flags.common.quiet, flags.common.verbose, env)
	if !flags.watch {
		return batchErr
	}
	if batchErr != nil {
		fmt.Fprintln(env.Stderr, batchErr)
	}

	return watchAndConvert(ctx, conv, inputPath, outputDir, params, flags, env, logger)
}

// resolveSettings layers config file, environment and flags, then validates
// the result and resolves the render timeout.
func resolveSettings(flags *convertFlags, envCfg *envConfig) (*config.Config, time.Duration, error) {
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return nil, 0, err
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid settings: %w", err)
	}

	timeout, err := resolveTimeout(flags.render.timeout, cfg)
	if err != nil {
		return nil, 0, err
	}
	return cfg, timeout, nil
}

// loadConfig loads the config named by the flag, else by OB2GFM_CONFIG.
// Without either it returns the defaults; no file is searched implicitly.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.imageDir != "" {
		cfg.Images.Dir = flags.imageDir
	}

	// Render flags
	if flags.render.url != "" {
		cfg.Render.URL = flags.render.url
	}
	if flags.render.local {
		cfg.Render.Local = true
	}

	// Preview flags
	if flags.preview.enabled {
		cfg.Preview.Enabled = true
	}
	if flags.preview.title != "" {
		cfg.Preview.Title = flags.preview.title
	}
	if flags.preview.style != "" {
		cfg.Preview.Style = flags.preview.style
	}
	if flags.preview.assetPath != "" {
		cfg.Preview.AssetPath = flags.preview.assetPath
	}
	if flags.preview.noMath {
		cfg.Preview.NoMath = true
	}
}

// resolveTimeout picks the render timeout.
// Priority: flag > config (including OB2GFM_TIMEOUT) > default.
func resolveTimeout(flagValue string, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q (use a duration like 30s or 2m)", ErrInvalidTimeout, flagValue)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}

	if cfg.Render.Timeout > 0 {
		return time.Duration(cfg.Render.Timeout), nil
	}
	return defaultRenderTimeout, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// paramsFromConfig extracts the per-file conversion parameters.
func paramsFromConfig(cfg *config.Config) *conversionParams {
	return &conversionParams{
		preview: cfg.Preview.Enabled,
		title:   cfg.Preview.Title,
		local:   cfg.Render.Local,
	}
}

// newConverter builds the library converter from resolved settings.
func newConverter(cfg *config.Config, timeout time.Duration, logger *slog.Logger, env *Environment) (*ob2gfm.Converter, error) {
	opts := []ob2gfm.Option{
		ob2gfm.WithLogger(logger),
		ob2gfm.WithTimeout(timeout),
		ob2gfm.WithImageDir(cfg.Images.Dir),
	}

	switch {
	case cfg.Render.Local:
		opts = append(opts, ob2gfm.WithLocalRenderer())
	case cfg.Render.URL != "":
		opts = append(opts, ob2gfm.WithRenderURL(cfg.Render.URL))
	}
	if env.HTTPClient != nil {
		opts = append(opts, ob2gfm.WithHTTPClient(env.HTTPClient))
	}

	if cfg.Preview.Style != "" {
		opts = append(opts, ob2gfm.WithStyle(cfg.Preview.Style))
	}
	if cfg.Preview.AssetPath != "" {
		opts = append(opts, ob2gfm.WithAssetPath(cfg.Preview.AssetPath))
	}
	if cfg.Preview.NoMath {
		opts = append(opts, ob2gfm.WithTypesetter(nil))
	}

	conv, err := ob2gfm.NewConverter(opts...)
	if err != nil {
		if errors.Is(err, ob2gfm.ErrStyleNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(availableStyles(cfg.Preview.AssetPath)))
		}
		return nil, err
	}
	return conv, nil
}

// availableStyles lists style names servable with the given asset path.
func availableStyles(assetPath string) []string {
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return assets.ListStyles()
	}
	return resolver.ListStyles()
}

// convertStream converts a single note named name read from r. The Markdown
// goes to output when set, else to stdout byte for byte.
func convertStream(ctx context.Context, conv CLIConverter, r io.Reader, name, output string, params *conversionParams, quiet bool, env *Environment) error {
	if params.preview && output == "" {
		return fmt.Errorf("%w: %w", ErrUsage, ErrPreviewNeedsOutput)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	if output == "" {
		res, err := conv.Convert(ctx, ob2gfm.Input{Markdown: string(content)})
		if err != nil {
			return err
		}
		_, err = io.WriteString(env.Stdout, res.Markdown)
		return err
	}

	title := params.title
	if title == "" {
		title = name
	}
	result := writeConversion(ctx, conv, string(content), resolveStreamOutput(output, name), title, params)
	result.InputPath = name
	return reportResults([]ConversionResult{result}, quiet, false, env)
}
