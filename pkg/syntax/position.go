package syntax

import "fmt"

// Position is a 1-based line/column location. Columns count bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position points into a unit.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Position computes where a node starts in the rendered text.
// Positions of every node are indexed in one pass and rebuilt after a correction.
func (t *Tree) Position(id NodeID) Position {
	if id < 0 || int(id) >= len(t.nodes) {
		return Position{}
	}
	t.index()
	return t.starts[id]
}

// End computes the position immediately after a node.
func (t *Tree) End(id NodeID) Position {
	if id < 0 || int(id) >= len(t.nodes) {
		return Position{}
	}
	t.index()
	return t.ends[id]
}

// index records the start and end of every live node. Detached nodes keep the
// zero Position.
func (t *Tree) index() {
	if t.starts != nil && t.indexed == t.version && len(t.starts) == len(t.nodes) {
		return
	}
	t.starts = make([]Position, len(t.nodes))
	t.ends = make([]Position, len(t.nodes))

	pos := Position{Line: 1, Column: 1}
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := &t.nodes[id]
		t.starts[id] = pos
		if n.IsLeaf() {
			pos = advance(pos, n.Text)
		} else {
			for _, c := range n.Children {
				if !t.nodes[c].removed {
					visit(c)
				}
			}
		}
		t.ends[id] = pos
	}
	visit(t.root)
	t.indexed = t.version
}

func advance(p Position, text string) Position {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			p.Line++
			p.Column = 1
			continue
		}
		p.Column++
	}
	return p
}
