// Package syntax models a parsed source unit as a mutable arena of nodes.
//
// Parsers are external collaborators: they build a Tree whose leaves, read in document
// order, reproduce the unit's text exactly. Rules traverse the tree and, when they can
// correct what they report, rewrite it in place through SetText, Remove and Append.
// A Tree is owned by the single task analyzing its unit and is not safe for concurrent
// use.
package syntax

import (
	"fmt"
	"strings"
)

// NodeID addresses a node inside its Tree.
type NodeID int

// NoNode is returned where a node does not exist.
const NoNode NodeID = -1

// Common node kinds produced by the bundled parsers.
const (
	KindFile       = "file"
	KindLine       = "line"
	KindWord       = "word"
	KindWhitespace = "whitespace" // spaces and tabs, never newlines
	KindNewline    = "newline"
)

// Node is one element of the arena.
// Only leaves carry text; inner nodes render as the concatenation of their children.
type Node struct {
	Kind     string
	Text     string
	Parent   NodeID
	Children []NodeID
	removed  bool
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is the arena holding every node of a unit.
type Tree struct {
	nodes []Node
	root  NodeID
	dirty bool

	// version counts structural and text changes; the position index is valid
	// while indexed equals it.
	version uint64
	indexed uint64
	starts  []Position
	ends    []Position
}

// NewTree creates a tree with a single root node of the given kind.
func NewTree(rootKind string) *Tree {
	t := &Tree{}
	t.root = t.alloc(Node{Kind: rootKind, Parent: NoNode})
	return t
}

func (t *Tree) alloc(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	t.version++
	return NodeID(len(t.nodes) - 1)
}

// Root returns the root node id.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns the node with the given id.
// It panics on ids that do not belong to the tree.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("syntax: node %d out of range", id))
	}
	return &t.nodes[id]
}

// Kind returns the kind of a node.
func (t *Tree) Kind(id NodeID) string {
	return t.Node(id).Kind
}

// Children returns the live children of a node.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.Node(id).Children
}

// Add appends a new child under parent while building the tree.
// It does not mark the tree as modified; use Append for corrections.
func (t *Tree) Add(parent NodeID, kind, text string) NodeID {
	id := t.alloc(Node{Kind: kind, Text: text, Parent: parent})
	p := t.Node(parent)
	p.Children = append(p.Children, id)
	return id
}

// Append adds a new child under parent as a correction.
func (t *Tree) Append(parent NodeID, kind, text string) NodeID {
	id := t.Add(parent, kind, text)
	t.dirty = true
	return id
}

// InsertBefore inserts a new sibling immediately before the given node as a correction.
func (t *Tree) InsertBefore(sibling NodeID, kind, text string) NodeID {
	parent := t.Node(sibling).Parent
	if parent == NoNode {
		panic("syntax: cannot insert a sibling of the root")
	}
	id := t.alloc(Node{Kind: kind, Text: text, Parent: parent})
	p := t.Node(parent)
	idx := indexOf(p.Children, sibling)
	p.Children = append(p.Children, 0)
	copy(p.Children[idx+1:], p.Children[idx:])
	p.Children[idx] = id
	t.dirty = true
	t.version++
	return id
}

// SetText replaces the text of a leaf.
func (t *Tree) SetText(id NodeID, text string) {
	n := t.Node(id)
	if !n.IsLeaf() {
		panic(fmt.Sprintf("syntax: SetText on inner node %d (%s)", id, n.Kind))
	}
	if n.Text == text {
		return
	}
	n.Text = text
	t.dirty = true
	t.version++
}

// Remove detaches a node and its subtree from the tree.
func (t *Tree) Remove(id NodeID) {
	n := t.Node(id)
	if n.Parent == NoNode {
		panic("syntax: cannot remove the root")
	}
	if n.removed {
		return
	}
	p := t.Node(n.Parent)
	if idx := indexOf(p.Children, id); idx >= 0 {
		p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
	}
	n.removed = true
	t.dirty = true
	t.version++
}

// Removed reports whether a node has been detached.
func (t *Tree) Removed(id NodeID) bool {
	return t.Node(id).removed
}

// Modified reports whether any correction has been applied since the tree was built.
func (t *Tree) Modified() bool {
	return t.dirty
}

// Walk visits live nodes depth-first in document order.
// Returning false from fn skips the children of the visited node.
func (t *Tree) Walk(fn func(id NodeID, n *Node) bool) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := t.Node(id)
		if !fn(id, n) {
			return
		}
		// Children may be mutated by fn; iterate over a snapshot.
		children := append([]NodeID(nil), n.Children...)
		for _, c := range children {
			if !t.Node(c).removed {
				visit(c)
			}
		}
	}
	visit(t.root)
}

// Leaves returns the live leaves in document order.
func (t *Tree) Leaves() []NodeID {
	var out []NodeID
	t.Walk(func(id NodeID, n *Node) bool {
		if n.IsLeaf() && id != t.root {
			out = append(out, id)
		}
		return true
	})
	return out
}

// NodeText renders the text covered by a node.
func (t *Tree) NodeText(id NodeID) string {
	var sb strings.Builder
	t.writeText(&sb, id)
	return sb.String()
}

func (t *Tree) writeText(sb *strings.Builder, id NodeID) {
	n := t.Node(id)
	if n.IsLeaf() {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		t.writeText(sb, c)
	}
}

// Text renders the whole unit.
func (t *Tree) Text() string {
	return t.NodeText(t.root)
}

// LineCount returns the number of lines of the rendered text.
// A trailing newline does not start a new line.
func (t *Tree) LineCount() int {
	text := t.Text()
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
