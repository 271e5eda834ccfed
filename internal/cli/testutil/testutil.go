// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
)

// SetupSourceTree creates a temporary directory holding files, keyed by slash-separated
// relative path, and returns its path.
func SetupSourceTree(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(tmpDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
