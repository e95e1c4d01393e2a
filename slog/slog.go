// Package slog provides the toolkit's logger construction and logging
// decorators for domain interfaces.
package slog

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds a terminal-friendly logger writing to w. Verbose
// enables debug level.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// NewDiscardLogger builds a logger that drops everything. Useful as a
// default when no logger is wired.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
