package testutil

import (
	"context"
	"sort"
	"sync"
)

// MemoryWriter captures written files in memory. Safe for concurrent use.
type MemoryWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryWriter returns an empty writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{files: make(map[string][]byte)}
}

// WriteFile stores content under path.
func (w *MemoryWriter) WriteFile(_ context.Context, path string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = append([]byte(nil), content...)
	return nil
}

// File returns what was written to path.
func (w *MemoryWriter) File(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.files[path]
	return string(b), ok
}

// Paths returns the written paths, sorted.
func (w *MemoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
