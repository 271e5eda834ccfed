// Package treesitter adapts tree-sitter grammars to the syntax.Parser contract.
//
// Grammar nodes become inner nodes of the arena and grammar leaves become text leaves.
// Source text the grammar does not attach to any node, typically whitespace between
// tokens, is split into word, whitespace and newline leaves so that the rendered tree
// always reproduces the unit.
package treesitter

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

var languages = map[string]func() *sitter.Language{
	".go":   golang.GetLanguage,
	".py":   python.GetLanguage,
	".yaml": yaml.GetLanguage,
	".yml":  yaml.GetLanguage,
	".sh":   bash.GetLanguage,
}

// Extensions lists the file extensions with a bundled grammar.
func Extensions() []string {
	out := make([]string, 0, len(languages))
	for ext := range languages {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Parser picks a grammar by file extension.
// Units without a grammar are handed to Fallback, or rejected when it is nil.
type Parser struct {
	// Strict turns grammar errors into parse failures.
	Strict   bool
	Fallback syntax.Parser
}

// New returns a parser that falls back to plain text tokenization.
func New(strict bool) *Parser {
	return &Parser{Strict: strict, Fallback: syntax.TextParser{}}
}

// Name returns "treesitter".
func (p *Parser) Name() string { return "treesitter" }

// Parse builds an arena tree from the grammar's concrete syntax tree.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*syntax.Tree, syntax.LineEnding, error) {
	lang, ok := languages[strings.ToLower(filepath.Ext(path))]
	if !ok {
		if p.Fallback == nil {
			return nil, syntax.LF, &syntax.ParseError{
				Path: path, Parser: p.Name(),
				Err: fmt.Errorf("no grammar for %q", filepath.Ext(path)),
			}
		}
		return p.Fallback.Parse(ctx, path, src)
	}

	raw := string(src)
	le := syntax.DetectLineEnding(raw)
	text := []byte(syntax.Normalize(raw))

	// New instance per call: tree-sitter parsers are not safe for concurrent use.
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang())

	tree, err := parser.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, le, &syntax.ParseError{Path: path, Parser: p.Name(), Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, le, &syntax.ParseError{Path: path, Parser: p.Name(), Err: fmt.Errorf("empty syntax tree")}
	}
	if p.Strict && root.HasError() {
		return nil, le, &syntax.ParseError{Path: path, Parser: p.Name(), Err: fmt.Errorf("source contains syntax errors")}
	}

	out := syntax.NewTree(root.Type())
	convert(out, out.Root(), root, text, 0, uint32(len(text)))
	return out, le, nil
}

// convert copies the children of n into parent, covering the byte range [from, to).
func convert(out *syntax.Tree, parent syntax.NodeID, n *sitter.Node, src []byte, from, to uint32) {
	cursor := from
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		start, end := child.StartByte(), child.EndByte()
		if start < cursor {
			continue
		}
		if start > cursor {
			out.AddTokens(parent, string(src[cursor:start]))
		}
		if child.ChildCount() == 0 {
			text := string(src[start:end])
			switch {
			case text == "":
			case strings.TrimSpace(text) == "":
				// Grammars that treat newlines as terminators emit them as tokens.
				out.AddTokens(parent, text)
			default:
				out.Add(parent, child.Type(), text)
			}
		} else {
			id := out.Add(parent, child.Type(), "")
			convert(out, id, child, src, start, end)
		}
		cursor = end
	}
	if cursor < to {
		out.AddTokens(parent, string(src[cursor:to]))
	}
}
