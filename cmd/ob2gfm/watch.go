package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-ob2gfm/internal/fileutil"
)

// ErrWatch indicates the file watcher could not be set up.
var ErrWatch = errors.New("failed to watch input")

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

// inputWatcher reports changed notes under a file or directory input.
type inputWatcher struct {
	watcher   *fsnotify.Watcher
	inputPath string
	outputDir string
	baseDir   string // Input directory; empty for a single-file input
	logger    *slog.Logger
}

// newInputWatcher starts watching inputPath. Directories are watched
// recursively; a single file is watched through its parent directory.
func newInputWatcher(inputPath, outputDir string, logger *slog.Logger) (*inputWatcher, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}

	iw := &inputWatcher{
		watcher:   w,
		inputPath: filepath.Clean(inputPath),
		outputDir: outputDir,
		logger:    logger,
	}

	if info.IsDir() {
		iw.baseDir = iw.inputPath
		err = iw.addTree(iw.inputPath)
	} else {
		err = w.Add(filepath.Dir(iw.inputPath))
	}
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}

	return iw, nil
}

// addTree watches dir and its subdirectories, skipping the output directory.
func (iw *inputWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != iw.baseDir && isWithin(path, iw.outputDir) {
			return filepath.SkipDir
		}
		return iw.watcher.Add(path)
	})
}

// Close stops watching.
func (iw *inputWatcher) Close() error {
	return iw.watcher.Close()
}

// Run delivers changed notes to onChange, at most once per note per quiet
// period of debounce, until ctx is done.
func (iw *inputWatcher) Run(ctx context.Context, debounce time.Duration, onChange func(FileToConvert)) error {
	pending := make(map[string]FileToConvert)
	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-iw.watcher.Events:
			if !ok {
				return nil
			}
			iw.logger.Debug("watch event", "file", event.Name, "op", event.Op.String())

			if event.Op&fsnotify.Create == fsnotify.Create && iw.baseDir != "" {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := iw.addTree(event.Name); err != nil {
						iw.logger.Warn("cannot watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			f, ok := iw.accept(event.Name)
			if !ok {
				continue
			}
			pending[f.InputPath] = f

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				f := pending[p]
				delete(pending, p)
				// A rename away leaves nothing to convert.
				if !fileutil.FileExists(f.InputPath) {
					continue
				}
				onChange(f)
			}

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return nil
			}
			iw.logger.Error("watcher error", "error", err)
		}
	}
}

// accept maps an event path to the conversion it triggers.
func (iw *inputWatcher) accept(name string) (FileToConvert, bool) {
	path := filepath.Clean(name)

	if iw.baseDir == "" {
		if path != iw.inputPath {
			return FileToConvert{}, false
		}
		return FileToConvert{InputPath: path, OutputPath: resolveOutputPath(path, iw.outputDir, "")}, true
	}

	if !fileutil.IsMarkdown(path) || isGenerated(path) || isWithin(path, iw.outputDir) {
		return FileToConvert{}, false
	}
	return FileToConvert{InputPath: path, OutputPath: resolveOutputPath(path, iw.outputDir, iw.baseDir)}, true
}

// watchAndConvert converts notes again as they change, until ctx is done.
func watchAndConvert(ctx context.Context, conv CLIConverter, inputPath, outputDir string, params *conversionParams, flags *convertFlags, env *Environment, logger *slog.Logger) error {
	iw, err := newInputWatcher(inputPath, outputDir, logger)
	if err != nil {
		return err
	}
	defer iw.Close()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", inputPath)
	}

	return iw.Run(ctx, watchDebounce, func(f FileToConvert) {
		result := convertFile(ctx, conv, f, params)
		if err := reportResults([]ConversionResult{result}, flags.common.quiet, flags.common.verbose, env); err != nil {
			logger.Debug("conversion after change failed", "file", f.InputPath, "error", err)
		}
	})
}
