// Package logging configures the process-wide slog logger.
//
// The terminal is owned by the TUI, so records never go to stderr: with
// debugging on they are appended to debug.log in the config directory,
// otherwise they are discarded.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

// Options controls Setup
type Options struct {
	Debug bool
	// Path of the log file; required when Debug is set
	Path string
	// Writer replaces the log file when non-nil
	Writer io.Writer
}

// Setup builds a logger for opts and installs it as slog's default.
// The returned close function releases the log file and is always non-nil.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if !opts.Debug {
		logger := slog.New(slog.DiscardHandler)
		slog.SetDefault(logger)
		return logger, noop, nil
	}

	w := opts.Writer
	closeFn := noop
	if w == nil {
		if opts.Path == "" {
			return nil, noop, fmt.Errorf("debug logging needs a log file path")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
			return nil, noop, fmt.Errorf("failed to create log directory: %w", err)
		}
		// Also redirects the standard log package so nothing writes over the TUI
		f, err := tea.LogToFile(opts.Path, "relgpt")
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
