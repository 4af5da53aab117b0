package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	ob2gfm "github.com/alnah/go-ob2gfm"
)

// newTestEnv returns an environment writing to buffers.
func newTestEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Stdin:  strings.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

// writeNote writes content to dir/name, creating parent directories.
func writeNote(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// renderServer serves body with status for every request.
func renderServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// mockConverter records inputs and answers with convert.
type mockConverter struct {
	mu      sync.Mutex
	inputs  []ob2gfm.Input
	convert func(ob2gfm.Input) (*ob2gfm.ConvertResult, error)
}

func (m *mockConverter) Convert(_ context.Context, input ob2gfm.Input) (*ob2gfm.ConvertResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.convert != nil {
		return m.convert(input)
	}
	return &ob2gfm.ConvertResult{Markdown: strings.ToUpper(input.Markdown)}, nil
}

func (m *mockConverter) calls() []ob2gfm.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ob2gfm.Input(nil), m.inputs...)
}
