package lint

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// SourceUnit is one parsed file. Its tree is owned by the task analyzing it.
type SourceUnit struct {
	Path       string
	Tree       *syntax.Tree
	LineEnding syntax.LineEnding

	original uint64
}

// NewSourceUnit wraps a parsed tree and fingerprints its current text.
func NewSourceUnit(path string, tree *syntax.Tree, le syntax.LineEnding) (*SourceUnit, error) {
	if tree == nil {
		return nil, fmt.Errorf("%s: nil syntax tree", path)
	}
	h, err := syntax.Hash(tree.Text())
	if err != nil {
		return nil, fmt.Errorf("%s: hash: %w", path, err)
	}
	return &SourceUnit{Path: path, Tree: tree, LineEnding: le, original: h}, nil
}

// ParseUnit parses src with p and wraps the result.
func ParseUnit(ctx context.Context, p syntax.Parser, path string, src []byte) (*SourceUnit, error) {
	tree, le, err := p.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	return NewSourceUnit(path, tree, le)
}

// Changed reports whether the rendered text differs from what was parsed.
func (u *SourceUnit) Changed() (bool, error) {
	if !u.Tree.Modified() {
		return false, nil
	}
	h, err := syntax.Hash(u.Tree.Text())
	if err != nil {
		return false, err
	}
	return h != u.original, nil
}

// Content renders the unit with its original line endings.
func (u *SourceUnit) Content() []byte {
	return []byte(u.LineEnding.Apply(u.Tree.Text()))
}
