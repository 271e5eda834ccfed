package formatting

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// FinalNewline reports units whose last line is not terminated and appends a newline.
// It runs after the other formatting rules so their corrections are seen.
var FinalNewline = lint.RuleDef{
	Name:            "FinalNewline",
	Description:     "Units should end with a newline.",
	Correctable:     true,
	ActiveByDefault: true,
	Late:            true,
	Check:           checkFinalNewline,
}

func checkFinalNewline(p *lint.Pass) ([]lint.Finding, error) {
	tree := p.Tree()
	leaves := tree.Leaves()
	if len(leaves) == 0 {
		return nil, nil
	}
	text := tree.Text()
	if text == "" || strings.HasSuffix(text, "\n") {
		return nil, nil
	}

	last := leaves[len(leaves)-1]
	f := report(p, syntax.NoNode, "missing final newline")
	f.Pos = tree.End(last)
	if p.AutoCorrect {
		tree.Append(tree.Node(last).Parent, syntax.KindNewline, "\n")
	}
	return []lint.Finding{f}, nil
}
