package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	HTTPClient *http.Client // nil = http.DefaultClient
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// newLogger returns a debug-level text logger on env.Stderr when verbose,
// and a discarding logger otherwise.
func (env *Environment) newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
