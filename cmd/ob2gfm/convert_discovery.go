package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ob2gfm "github.com/alnah/go-ob2gfm"
	"github.com/alnah/go-ob2gfm/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrOutputIsInput      = errors.New("output path is the input file")
)

// gfmSuffix marks converted files written next to their source.
const gfmSuffix = ".gfm.md"

// tempFilePrefix matches the temporary files of fileutil.WriteFileAtomic.
const tempFilePrefix = ".ob2gfm-"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all markdown files to convert. Files this tool
// generated are skipped when walking a directory.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && isWithin(path, outputDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsMarkdown(path) || isGenerated(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the GitHub Markdown path for a note.
// Without an output directory the result sits next to the note as
// <name>.gfm.md; with one it keeps the note's path relative to baseInputDir.
// An output ending in .md names the file directly.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+gfmSuffix)
	}

	if baseInputDir == "" && strings.EqualFold(filepath.Ext(outputDir), ".md") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".md")
		}
	}

	return filepath.Join(outputDir, base+".md")
}

// resolveStreamOutput returns the Markdown path for a note without a source
// file: output itself, or <output>/<name>.md when output is a directory.
func resolveStreamOutput(output, name string) string {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name+".md")
	}
	return output
}

// previewOutputPath returns the HTML preview path for a Markdown output path.
func previewOutputPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".html"
}

// isGenerated reports whether path is a converted note or an in-flight
// temporary file.
func isGenerated(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.ToLower(base), gfmSuffix) || strings.HasPrefix(base, tempFilePrefix)
}

// isWithin reports whether path is dir or lies below it.
func isWithin(path, dir string) bool {
	if dir == "" {
		return false
	}
	absPath, err1 := filepath.Abs(path)
	absDir, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	absA, err1 := filepath.Abs(a)
	absB, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && absA == absB
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > ob2gfm.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, ob2gfm.MaxPoolSize)
	}
	return nil
}
