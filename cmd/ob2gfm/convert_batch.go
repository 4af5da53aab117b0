package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ob2gfm "github.com/alnah/go-ob2gfm"
	"github.com/alnah/go-ob2gfm/internal/fileutil"
	"github.com/alnah/go-ob2gfm/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath   string
	OutputPath  string
	PreviewPath string // Empty unless a preview was written
	Err         error  // The Markdown was not written
	RenderErr   error  // The Markdown was written; the preview shows this error
	Duration    time.Duration
}

// convertBatch processes files concurrently with up to workers goroutines
// sharing conv.
func convertBatch(ctx context.Context, conv CLIConverter, workers int, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()

	if samePath(f.InputPath, f.OutputPath) {
		return ConversionResult{
			InputPath:  f.InputPath,
			OutputPath: f.OutputPath,
			Err:        fmt.Errorf("%w: %s", ErrOutputIsInput, f.OutputPath),
		}
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return ConversionResult{
			InputPath:  f.InputPath,
			OutputPath: f.OutputPath,
			Err:        fmt.Errorf("%w: %w", ErrReadMarkdown, err),
			Duration:   time.Since(start),
		}
	}

	result := writeConversion(ctx, conv, string(content), f.OutputPath, titleFor(params, f.InputPath), params)
	result.InputPath = f.InputPath
	result.Duration = time.Since(start)
	return result
}

// writeConversion converts markdown and writes the result to outputPath,
// plus the preview document when requested. The Markdown is written even
// when the preview could not be rendered.
func writeConversion(ctx context.Context, conv CLIConverter, markdown, outputPath, title string, params *conversionParams) ConversionResult {
	result := ConversionResult{OutputPath: outputPath}

	if err := os.MkdirAll(filepath.Dir(outputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
		return result
	}

	res, err := conv.Convert(ctx, ob2gfm.Input{
		Markdown: markdown,
		Preview:  params.preview,
		Title:    title,
	})
	if err != nil && res == nil {
		result.Err = err
		return result
	}

	if writeErr := fileutil.WriteFileAtomic(outputPath, []byte(res.Markdown), filePermissions); writeErr != nil {
		result.Err = fmt.Errorf("%w: %w", ErrWriteMarkdown, writeErr)
		return result
	}
	// Preview document failure: the Markdown is already on disk.
	if err != nil {
		result.Err = err
		return result
	}

	if params.preview {
		previewPath := previewOutputPath(outputPath)
		if writeErr := fileutil.WriteFileAtomic(previewPath, []byte(res.HTML), filePermissions); writeErr != nil {
			result.Err = fmt.Errorf("%w: %w", ErrWritePreview, writeErr)
			return result
		}
		result.PreviewPath = previewPath
	}

	if res.RenderErr != nil {
		result.RenderErr = fmt.Errorf("%w%s", res.RenderErr, renderHints(res.RenderErr, params.local))
	}
	return result
}

// titleFor returns the preview title: the configured one, else the file
// name without extension.
func titleFor(params *conversionParams, inputPath string) string {
	if params.title != "" {
		return params.title
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// renderHints returns the hints matching a render failure.
func renderHints(err error, local bool) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return hints.ForTimeout()
	}
	return hints.ForRenderFailure(local)
}

// ResultSummary holds conversion counts.
type ResultSummary struct {
	Succeeded    int
	Failed       int
	RenderFailed int // Succeeded, but the preview shows an error
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.RenderErr != nil:
			summary.Succeeded++
			summary.RenderFailed++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// reportResults prints conversion results and returns an error when any
// conversion failed, or wrapping ob2gfm.ErrRender when only previews failed.
func reportResults(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		if r.RenderErr != nil {
			fmt.Fprintf(env.Stderr, "WARNING %s: %v\n", r.InputPath, r.RenderErr)
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.PreviewPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.PreviewPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if firstErr != nil {
		return fmt.Errorf("%d of %d conversion(s) failed: %w", summary.Failed, len(results), firstErr)
	}
	if summary.RenderFailed > 0 {
		return fmt.Errorf("%w: %d preview(s) show the error instead of content", ob2gfm.ErrRender, summary.RenderFailed)
	}
	return nil
}
