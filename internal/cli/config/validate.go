package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Validate checks the settings for values the CLI cannot act on.
func (s *Settings) Validate() error {
	switch s.Parser {
	case ParserText, ParserTreeSitter:
	default:
		return fmt.Errorf("unknown parser %q (want %s or %s)", s.Parser, ParserText, ParserTreeSitter)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", s.LogFormat)
	}
	switch strings.ToLower(s.Output) {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("unknown output %q (want auto, text or json)", s.Output)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	return nil
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds the CLI logger writing to w.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
