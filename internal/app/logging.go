package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// SetupLogging sends the default slog logger to path. The terminal belongs
// to the UI, so nothing is logged to stdout or stderr.
func SetupLogging(path string, debug bool) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "roritwitch"),
	)
	slog.SetDefault(logger)

	return f, nil
}
