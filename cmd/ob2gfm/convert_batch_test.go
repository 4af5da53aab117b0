package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ob2gfm "github.com/alnah/go-ob2gfm"
)

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []FileToConvert
	for i := range 5 {
		in := writeNote(t, dir, fmt.Sprintf("n%d.md", i), fmt.Sprintf("note %d", i))
		files = append(files, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, "out", fmt.Sprintf("n%d.md", i))})
	}

	conv := &mockConverter{}
	results := convertBatch(context.Background(), conv, 3, files, &conversionParams{})

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d error: %v", i, r.Err)
			continue
		}
		if r.InputPath != files[i].InputPath {
			t.Errorf("result %d out of order: %s", i, r.InputPath)
		}
		if got := readFile(t, r.OutputPath); got != fmt.Sprintf("NOTE %d", i) {
			t.Errorf("result %d content = %q", i, got)
		}
	}
	if len(conv.calls()) != len(files) {
		t.Errorf("converter called %d times, want %d", len(conv.calls()), len(files))
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := convertBatch(context.Background(), &mockConverter{}, 2, nil, &conversionParams{}); got != nil {
		t.Errorf("convertBatch(nil) = %v, want nil", got)
	}
}

func TestConvertBatch_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeNote(t, dir, "a.md", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &mockConverter{}
	results := convertBatch(ctx, conv, 1, []FileToConvert{{InputPath: in, OutputPath: filepath.Join(dir, "a.out.md")}}, &conversionParams{})

	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", results[0].Err)
	}
	if len(conv.calls()) != 0 {
		t.Error("converter should not be called after cancellation")
	}
}

func TestConvertFile(t *testing.T) {
	t.Parallel()

	t.Run("passes preview params and default title", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeNote(t, dir, "My Note.md", "x")
		out := filepath.Join(dir, "My Note.gfm.md")
		conv := &mockConverter{convert: func(in ob2gfm.Input) (*ob2gfm.ConvertResult, error) {
			return &ob2gfm.ConvertResult{Markdown: "md", HTML: "<html>" + in.Title + "</html>"}, nil
		}}

		r := convertFile(context.Background(), conv, FileToConvert{InputPath: in, OutputPath: out}, &conversionParams{preview: true})
		if r.Err != nil {
			t.Fatalf("convertFile() error = %v", r.Err)
		}

		calls := conv.calls()
		if !calls[0].Preview || calls[0].Title != "My Note" {
			t.Errorf("input = %+v, want preview with file name title", calls[0])
		}
		if r.PreviewPath != filepath.Join(dir, "My Note.gfm.html") {
			t.Errorf("PreviewPath = %q", r.PreviewPath)
		}
		if got := readFile(t, r.PreviewPath); got != "<html>My Note</html>" {
			t.Errorf("preview = %q", got)
		}
	})

	t.Run("render error keeps markdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeNote(t, dir, "a.md", "x")
		out := filepath.Join(dir, "a.gfm.md")
		conv := &mockConverter{convert: func(ob2gfm.Input) (*ob2gfm.ConvertResult, error) {
			return &ob2gfm.ConvertResult{
				Markdown:  "converted",
				HTML:      "<pre>error</pre>",
				RenderErr: fmt.Errorf("%w: %w", ob2gfm.ErrRender, context.DeadlineExceeded),
			}, nil
		}}

		r := convertFile(context.Background(), conv, FileToConvert{InputPath: in, OutputPath: out}, &conversionParams{preview: true})
		if r.Err != nil {
			t.Fatalf("convertFile() error = %v", r.Err)
		}
		if !errors.Is(r.RenderErr, ob2gfm.ErrRender) {
			t.Errorf("RenderErr = %v, want ErrRender", r.RenderErr)
		}
		if !strings.Contains(r.RenderErr.Error(), "--timeout") {
			t.Errorf("RenderErr = %q, want timeout hint", r.RenderErr)
		}
		if readFile(t, out) != "converted" {
			t.Error("markdown not written")
		}
	})

	t.Run("preview document failure still writes markdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeNote(t, dir, "a.md", "x")
		out := filepath.Join(dir, "a.gfm.md")
		conv := &mockConverter{convert: func(ob2gfm.Input) (*ob2gfm.ConvertResult, error) {
			return &ob2gfm.ConvertResult{Markdown: "converted"}, ob2gfm.ErrPreviewDocument
		}}

		r := convertFile(context.Background(), conv, FileToConvert{InputPath: in, OutputPath: out}, &conversionParams{preview: true})
		if !errors.Is(r.Err, ob2gfm.ErrPreviewDocument) {
			t.Errorf("Err = %v, want ErrPreviewDocument", r.Err)
		}
		if readFile(t, out) != "converted" {
			t.Error("markdown not written")
		}
	})

	t.Run("converter error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeNote(t, dir, "a.md", "x")
		out := filepath.Join(dir, "a.gfm.md")
		conv := &mockConverter{convert: func(ob2gfm.Input) (*ob2gfm.ConvertResult, error) {
			return nil, context.Canceled
		}}

		r := convertFile(context.Background(), conv, FileToConvert{InputPath: in, OutputPath: out}, &conversionParams{})
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("Err = %v, want context.Canceled", r.Err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Error("no output should be written")
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		r := convertFile(context.Background(), &mockConverter{},
			FileToConvert{InputPath: filepath.Join(dir, "gone.md"), OutputPath: filepath.Join(dir, "gone.gfm.md")},
			&conversionParams{})
		if !errors.Is(r.Err, ErrReadMarkdown) || !errors.Is(r.Err, os.ErrNotExist) {
			t.Errorf("Err = %v, want ErrReadMarkdown wrapping ErrNotExist", r.Err)
		}
	})

	t.Run("output equals input", func(t *testing.T) {
		t.Parallel()

		in := writeNote(t, t.TempDir(), "a.md", "original")
		r := convertFile(context.Background(), &mockConverter{}, FileToConvert{InputPath: in, OutputPath: in}, &conversionParams{})
		if !errors.Is(r.Err, ErrOutputIsInput) {
			t.Errorf("Err = %v, want ErrOutputIsInput", r.Err)
		}
		if readFile(t, in) != "original" {
			t.Error("input must not be overwritten")
		}
	})
}

func TestCountResults(t *testing.T) {
	t.Parallel()

	got := countResults([]ConversionResult{
		{},
		{Err: errors.New("x")},
		{RenderErr: ob2gfm.ErrRender},
		{},
	})
	want := ResultSummary{Succeeded: 3, Failed: 1, RenderFailed: 1}
	if got != want {
		t.Errorf("countResults() = %+v, want %+v", got, want)
	}
}

func TestReportResults(t *testing.T) {
	t.Parallel()

	ok := ConversionResult{InputPath: "a.md", OutputPath: "out/a.md", PreviewPath: "out/a.html", Duration: 1500 * time.Microsecond}
	failed := ConversionResult{InputPath: "b.md", Err: ErrReadMarkdown}
	rendered := ConversionResult{InputPath: "c.md", OutputPath: "out/c.md", RenderErr: ob2gfm.ErrRender}

	t.Run("default output", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := newTestEnv("")
		if err := reportResults([]ConversionResult{ok}, false, false, env); err != nil {
			t.Fatalf("reportResults() error = %v", err)
		}
		want := "Created out/a.md\nCreated out/a.html\n"
		if stdout.String() != want {
			t.Errorf("stdout = %q, want %q", stdout.String(), want)
		}
	})

	t.Run("verbose shows timing", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := newTestEnv("")
		_ = reportResults([]ConversionResult{ok}, false, true, env)
		if !strings.Contains(stdout.String(), "a.md -> out/a.md (2ms)") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("quiet prints only problems", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := newTestEnv("")
		err := reportResults([]ConversionResult{ok, failed}, true, false, env)
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", stdout.String())
		}
		if !strings.Contains(stderr.String(), "FAILED b.md") {
			t.Errorf("stderr = %q", stderr.String())
		}
		if !errors.Is(err, ErrReadMarkdown) || !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("render failures map to ErrRender", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := newTestEnv("")
		err := reportResults([]ConversionResult{ok, rendered}, false, false, env)
		if !errors.Is(err, ob2gfm.ErrRender) {
			t.Errorf("error = %v, want ErrRender", err)
		}
		if !strings.Contains(stderr.String(), "WARNING c.md") {
			t.Errorf("stderr = %q", stderr.String())
		}
		if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("conversion failure beats render failure", func(t *testing.T) {
		t.Parallel()

		env, _, _ := newTestEnv("")
		err := reportResults([]ConversionResult{rendered, failed}, true, false, env)
		if errors.Is(err, ob2gfm.ErrRender) || !errors.Is(err, ErrReadMarkdown) {
			t.Errorf("error = %v, want ErrReadMarkdown only", err)
		}
	})
}
