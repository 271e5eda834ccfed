package lint

import (
	"context"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// =============================================================================
// Findings
// =============================================================================

// Finding represents one reported violation.
type Finding struct {
	RuleID   string          `json:"rule_id"`
	Severity core.Severity   `json:"severity"`
	Message  string          `json:"message"`
	Path     string          `json:"path"`
	Pos      syntax.Position `json:"pos"`
	EndPos   syntax.Position `json:"end_pos,omitzero"` // Optional: end of the problematic range

	// Remediation metadata
	DocumentationURL string `json:"documentation_url,omitempty"`
	Correctable      bool   `json:"correctable,omitempty"`
	// Corrected is set when the rule rewrote the tree to fix the violation.
	Corrected bool `json:"corrected,omitempty"`
}

// =============================================================================
// External collaborators
// =============================================================================

// SemanticContext gives rules access to resolved symbol information.
// It is optional: when absent, rules that require it are skipped.
type SemanticContext interface {
	// Defined reports whether name resolves to a declaration visible from the unit.
	Defined(path, name string) bool
}

// FileWriter persists corrected unit content.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FileWriterFunc adapts a function to FileWriter.
type FileWriterFunc func(ctx context.Context, path string, content []byte) error

// WriteFile calls f.
func (f FileWriterFunc) WriteFile(ctx context.Context, path string, content []byte) error {
	return f(ctx, path, content)
}
