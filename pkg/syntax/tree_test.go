package syntax

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTextTree_RoundTrip(t *testing.T) {
	tests := []string{
		"",
		"a",
		"hello world\n",
		"\tindented  line \nsecond\n\n\nlast",
		"\n",
	}
	for _, text := range tests {
		tree := BuildTextTree(text)
		assert.Equal(t, text, tree.Text(), "round trip of %q", text)
		assert.False(t, tree.Modified())
	}
}

func TestBuildTextTree_Structure(t *testing.T) {
	tree := BuildTextTree("a b\n c\n")
	lines := LineNodes(tree)
	require.Len(t, lines, 2)

	var kinds []string
	for _, c := range tree.Children(lines[0]) {
		kinds = append(kinds, tree.Kind(c))
	}
	assert.Equal(t, []string{KindWord, KindWhitespace, KindWord, KindNewline}, kinds)
	assert.Equal(t, " c\n", tree.NodeText(lines[1]))
	assert.Equal(t, 2, tree.LineCount())
}

func TestTree_Corrections(t *testing.T) {
	tree := BuildTextTree("a  \nb\n")
	lines := LineNodes(tree)
	ws := tree.Children(lines[0])[1]
	require.Equal(t, KindWhitespace, tree.Kind(ws))

	tree.Remove(ws)
	assert.True(t, tree.Modified())
	assert.True(t, tree.Removed(ws))
	assert.Equal(t, "a\nb\n", tree.Text())

	word := tree.Children(lines[1])[0]
	tree.SetText(word, "B")
	tree.InsertBefore(word, KindWhitespace, "  ")
	tree.Append(tree.Root(), KindLine, "")
	assert.Equal(t, "a\n  B\n", tree.Text())
}

func TestTree_SetTextSameValueIsNotAModification(t *testing.T) {
	tree := BuildTextTree("x")
	leaf := tree.Leaves()[0]
	tree.SetText(leaf, "x")
	assert.False(t, tree.Modified())
}

func TestTree_GuardsInvalidOperations(t *testing.T) {
	tree := BuildTextTree("x\n")
	assert.Panics(t, func() { tree.Remove(tree.Root()) })
	assert.Panics(t, func() { tree.SetText(tree.Root(), "y") })
	assert.Panics(t, func() { tree.Node(99) })
}

func TestTree_Position(t *testing.T) {
	tree := BuildTextTree("ab cd\n  ef\n")
	leaves := tree.Leaves()
	var ef NodeID = NoNode
	for _, l := range leaves {
		if tree.Node(l).Text == "ef" {
			ef = l
		}
	}
	require.NotEqual(t, NoNode, ef)
	assert.Equal(t, Position{Line: 2, Column: 3}, tree.Position(ef))
	assert.Equal(t, Position{Line: 2, Column: 5}, tree.End(ef))
	assert.Equal(t, "2:3", tree.Position(ef).String())
	assert.Equal(t, Position{Line: 1, Column: 1}, tree.Position(tree.Root()))
}

func TestTree_PositionAfterCorrections(t *testing.T) {
	tree := BuildTextTree("ab cd\nef\n")
	leafWith := func(text string) NodeID {
		for _, l := range tree.Leaves() {
			if tree.Node(l).Text == text {
				return l
			}
		}
		return NoNode
	}
	ab, cd, ef := leafWith("ab"), leafWith("cd"), leafWith("ef")
	assert.Equal(t, Position{Line: 1, Column: 4}, tree.Position(cd))

	tree.SetText(ab, "abcd")
	assert.Equal(t, Position{Line: 1, Column: 6}, tree.Position(cd))
	assert.Equal(t, Position{Line: 1, Column: 8}, tree.End(cd))

	tree.InsertBefore(ab, KindNewline, "\n")
	assert.Equal(t, Position{Line: 2, Column: 6}, tree.Position(cd))
	assert.Equal(t, Position{Line: 3, Column: 1}, tree.Position(ef))

	tree.Remove(cd)
	assert.Equal(t, Position{}, tree.Position(cd))
	assert.Equal(t, Position{}, tree.End(cd))
	assert.Equal(t, Position{}, tree.Position(NodeID(1000)))
}

func TestTree_PositionScalesWithFindings(t *testing.T) {
	tree := BuildTextTree(strings.Repeat("word word \n", 20000))
	leaves := tree.Leaves()
	require.Len(t, leaves, 100000)

	start := time.Now()
	var last Position
	for _, l := range leaves {
		last = tree.Position(l)
	}
	assert.Equal(t, 20000, last.Line)
	// One index build serves every lookup; a walk per lookup would take minutes.
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLineEnding(t *testing.T) {
	assert.Equal(t, CRLF, DetectLineEnding("a\r\nb"))
	assert.Equal(t, LF, DetectLineEnding("a\nb"))
	assert.Equal(t, "a\nb\n", Normalize("a\r\nb\r\n"))
	assert.Equal(t, "a\r\nb\r\n", CRLF.Apply("a\nb\n"))
	assert.Equal(t, "a\nb\n", LF.Apply("a\nb\n"))
	assert.Equal(t, "crlf", CRLF.String())
}

func TestTextParser_NormalizesCRLF(t *testing.T) {
	tree, le, err := TextParser{}.Parse(context.Background(), "x.txt", []byte("a \r\nb\r\n"))
	require.NoError(t, err)
	assert.Equal(t, CRLF, le)
	assert.Equal(t, "a \nb\n", tree.Text())
}

func TestTextParser_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := TextParser{}.Parse(ctx, "x.txt", []byte("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHash(t *testing.T) {
	a, err := Hash("alpha")
	require.NoError(t, err)
	b, err := Hash("alpha")
	require.NoError(t, err)
	c, err := Hash("alpha ")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestParseError(t *testing.T) {
	err := &ParseError{Path: "a.go", Parser: "go", Err: assert.AnError}
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "a.go")
}

func TestTree_AddTokens(t *testing.T) {
	tree := NewTree(KindFile)
	tree.AddTokens(tree.Root(), "x = 1 \n\ty")
	var kinds []string
	for _, c := range tree.Children(tree.Root()) {
		kinds = append(kinds, tree.Kind(c))
	}
	assert.Equal(t, []string{
		KindWord, KindWhitespace, KindWord, KindWhitespace, KindWord,
		KindWhitespace, KindNewline, KindWhitespace, KindWord,
	}, kinds)
	assert.Equal(t, "x = 1 \n\ty", tree.Text())
}
