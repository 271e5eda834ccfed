// Package testutil provides test helpers for structured logging and corrected-file capture.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Recorder is a slog.Handler that keeps every record for later assertions.
type Recorder struct {
	mu      sync.Mutex
	records []slog.Record
	attrs   []slog.Attr
	parent  *Recorder
}

// NewRecorder returns a recorder and a logger writing into it.
func NewRecorder() (*Recorder, *slog.Logger) {
	r := &Recorder{}
	return r, slog.New(r)
}

func (r *Recorder) root() *Recorder {
	if r.parent != nil {
		return r.parent.root()
	}
	return r
}

// Enabled accepts every level.
func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle stores the record.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	rec = rec.Clone()
	rec.AddAttrs(r.attrs...)
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	root.records = append(root.records, rec)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Recorder{parent: r, attrs: append(append([]slog.Attr(nil), r.attrs...), attrs...)}
}

// WithGroup is not needed by the code under test; groups are flattened.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Messages returns the messages logged at or above level.
func (r *Recorder) Messages(level slog.Level) []string {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	var out []string
	for _, rec := range root.records {
		if rec.Level >= level {
			out = append(out, rec.Message)
		}
	}
	return out
}

// Attr returns the value of key on the first record with the given message.
func (r *Recorder) Attr(msg, key string) (slog.Value, bool) {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	for _, rec := range root.records {
		if rec.Message != msg {
			continue
		}
		var (
			val   slog.Value
			found bool
		)
		rec.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				val, found = a.Value, true
				return false
			}
			return true
		})
		return val, found
	}
	return slog.Value{}, false
}
