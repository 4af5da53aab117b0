package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestInputWatcher_Accept(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeNote(t, dir, "a.md", "x")
	out := filepath.Join(dir, "out")

	iw, err := newInputWatcher(dir, out, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newInputWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = iw.Close() })

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"note", filepath.Join(dir, "a.md"), true},
		{"nested note", filepath.Join(dir, "sub", "b.markdown"), true},
		{"converted note", filepath.Join(dir, "a.gfm.md"), false},
		{"temp file", filepath.Join(dir, ".ob2gfm-1.md"), false},
		{"other file", filepath.Join(dir, "a.png"), false},
		{"output dir", filepath.Join(out, "a.md"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ok := iw.accept(tt.path)
			if ok != tt.want {
				t.Errorf("accept(%q) = %v, want %v", tt.path, ok, tt.want)
			}
		})
	}

	f, _ := iw.accept(filepath.Join(dir, "sub", "b.md"))
	if f.OutputPath != filepath.Join(out, "sub", "b.md") {
		t.Errorf("OutputPath = %q", f.OutputPath)
	}
}

func TestInputWatcher_AcceptSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	note := writeNote(t, dir, "a.md", "x")

	iw, err := newInputWatcher(note, "", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newInputWatcher() error = %v", err)
	}
	defer iw.Close()

	if _, ok := iw.accept(filepath.Join(dir, "other.md")); ok {
		t.Error("sibling note should be ignored")
	}
	f, ok := iw.accept(note)
	if !ok || f.OutputPath != filepath.Join(dir, "a.gfm.md") {
		t.Errorf("accept(note) = %+v, %v", f, ok)
	}
}

func TestNewInputWatcher_Missing(t *testing.T) {
	t.Parallel()

	if _, err := newInputWatcher(filepath.Join(t.TempDir(), "gone"), "", slog.New(slog.DiscardHandler)); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestInputWatcher_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	iw, err := newInputWatcher(dir, "", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newInputWatcher() error = %v", err)
	}
	defer iw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changed := make(chan FileToConvert, 10)
	done := make(chan error, 1)
	go func() {
		done <- iw.Run(ctx, 20*time.Millisecond, func(f FileToConvert) { changed <- f })
	}()

	// Several writes within the debounce period yield one change.
	note := filepath.Join(dir, "new.md")
	for i := range 3 {
		writeNote(t, dir, "new.md", string(rune('a'+i)))
	}
	writeNote(t, dir, "new.gfm.md", "generated")

	select {
	case f := <-changed:
		if f.InputPath != note {
			t.Errorf("InputPath = %q, want %q", f.InputPath, note)
		}
		if f.OutputPath != filepath.Join(dir, "new.gfm.md") {
			t.Errorf("OutputPath = %q", f.OutputPath)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	select {
	case f := <-changed:
		t.Errorf("unexpected second change: %+v", f)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
