// Package log builds the slog loggers used by the edxdstrain command.
//
// Library packages take a *slog.Logger option and discard records by
// default; only the command installs a real handler.
package log

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w. Records below Warn are dropped
// unless verbose is set, in which case everything down to Debug is kept.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON is New with a JSON handler, for machine-read logs.
func NewJSON(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
