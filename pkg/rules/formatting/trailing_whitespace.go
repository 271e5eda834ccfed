package formatting

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// TrailingWhitespace reports whitespace at the end of a line and removes it.
var TrailingWhitespace = lint.RuleDef{
	Name:            "TrailingWhitespace",
	Description:     "Lines should not end with whitespace.",
	Correctable:     true,
	ActiveByDefault: true,
	Check:           checkTrailingWhitespace,
}

func checkTrailingWhitespace(p *lint.Pass) ([]lint.Finding, error) {
	tree := p.Tree()
	leaves := tree.Leaves()

	var findings []lint.Finding
	var fixes []syntax.NodeID
	for i, leaf := range leaves {
		if tree.Kind(leaf) != syntax.KindWhitespace {
			continue
		}
		atEOL := i+1 == len(leaves) || tree.Kind(leaves[i+1]) == syntax.KindNewline
		if !atEOL {
			continue
		}
		findings = append(findings, report(p, leaf, "trailing whitespace"))
		fixes = append(fixes, leaf)
	}
	// Fixes are applied once every finding has its position.
	if p.AutoCorrect {
		for _, leaf := range fixes {
			tree.Remove(leaf)
		}
	}
	return findings, nil
}
