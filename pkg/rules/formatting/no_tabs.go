package formatting

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

const defaultTabWidth = 4

// NoTabs reports tab characters in whitespace and expands them to spaces.
var NoTabs = lint.RuleDef{
	Name:        "NoTabs",
	Description: "Whitespace should use spaces, not tabs.",
	Correctable: true,
	Options:     map[string]any{"tabWidth": defaultTabWidth},
	Check:       checkNoTabs,
}

func checkNoTabs(p *lint.Pass) ([]lint.Finding, error) {
	width := lint.GetIntOption(p.Config, "tabWidth", defaultTabWidth)
	if width < 0 {
		width = defaultTabWidth
	}
	spaces := strings.Repeat(" ", width)

	tree := p.Tree()
	var findings []lint.Finding
	var fixes []syntax.NodeID
	for _, leaf := range tree.Leaves() {
		n := tree.Node(leaf)
		if n.Kind != syntax.KindWhitespace || !strings.Contains(n.Text, "\t") {
			continue
		}
		findings = append(findings, report(p, leaf, "tab character in whitespace"))
		fixes = append(fixes, leaf)
	}
	if p.AutoCorrect {
		for _, leaf := range fixes {
			tree.SetText(leaf, strings.ReplaceAll(tree.Node(leaf).Text, "\t", spaces))
		}
	}
	return findings, nil
}
