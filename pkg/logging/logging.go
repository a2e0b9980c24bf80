// Package logging builds the application's slog logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
)

// Rotation settings for file logs
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 28
)

// Options selects the logger output
type Options struct {
	Level string
	// File switches to JSON lines in a rotated file when set
	File string
}

// New returns a text logger on stderr, or a JSON logger writing to a
// rotated file when opts.File is set.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	if opts.File != "" {
		writer := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		return slog.New(slog.NewJSONHandler(writer, handlerOpts))
	}

	return NewWithWriter(os.Stderr, opts.Level)
}

// NewWithWriter returns a text logger writing to w
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config level to an slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
