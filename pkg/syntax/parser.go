package syntax

import (
	"context"
	"errors"
	"fmt"
)

// ErrParse marks failures to turn a unit's text into a Tree.
var ErrParse = errors.New("parse failed")

// Parser turns raw unit text into a Tree.
// Implementations receive the original text and must normalize line endings, returning
// the convention they found so it can be restored when a corrected unit is written.
type Parser interface {
	Name() string
	Parse(ctx context.Context, path string, src []byte) (*Tree, LineEnding, error)
}

// ParseError reports why a unit could not be parsed.
type ParseError struct {
	Path   string
	Parser string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s parser: %v", e.Path, e.Parser, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// TextParser splits a unit into lines, and each line into word and whitespace leaves.
// Every line node ends with a newline leaf except possibly the last one.
type TextParser struct{}

// Name returns "text".
func (TextParser) Name() string { return "text" }

// Parse builds a file → line → token tree.
func (TextParser) Parse(ctx context.Context, path string, src []byte) (*Tree, LineEnding, error) {
	if err := ctx.Err(); err != nil {
		return nil, LF, err
	}
	raw := string(src)
	le := DetectLineEnding(raw)
	return BuildTextTree(Normalize(raw)), le, nil
}

// BuildTextTree tokenizes LF-normalized text.
func BuildTextTree(text string) *Tree {
	t := NewTree(KindFile)
	if text == "" {
		return t
	}
	line := t.Add(t.Root(), KindLine, "")
	for len(text) > 0 {
		tok, kind := nextToken(text)
		t.Add(line, kind, tok)
		text = text[len(tok):]
		if kind == KindNewline && len(text) > 0 {
			line = t.Add(t.Root(), KindLine, "")
		}
	}
	return t
}

// AddTokens splits text into word, whitespace and newline leaves under parent.
// Parsers use it for source text their grammar does not attach to a node.
func (t *Tree) AddTokens(parent NodeID, text string) {
	for len(text) > 0 {
		tok, kind := nextToken(text)
		t.Add(parent, kind, tok)
		text = text[len(tok):]
	}
}

func nextToken(text string) (string, string) {
	switch c := text[0]; {
	case c == '\n':
		return text[:1], KindNewline
	case c == ' ' || c == '\t':
		end := 1
		for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
			end++
		}
		return text[:end], KindWhitespace
	default:
		end := 1
		for end < len(text) && text[end] != ' ' && text[end] != '\t' && text[end] != '\n' {
			end++
		}
		return text[:end], KindWord
	}
}

// LineNodes returns the line nodes of a text tree in order.
func LineNodes(t *Tree) []NodeID {
	var out []NodeID
	for _, c := range t.Children(t.Root()) {
		if t.Kind(c) == KindLine {
			out = append(out, c)
		}
	}
	return out
}
