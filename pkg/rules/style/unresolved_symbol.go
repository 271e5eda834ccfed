package style

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// identifierKinds are the leaf kinds checked against the semantic context.
// "identifier" and "type_identifier" are produced by the tree-sitter grammars.
var identifierKinds = map[string]bool{
	"identifier":      true,
	"type_identifier": true,
}

// UnresolvedSymbol reports identifiers that do not resolve to a declaration.
// It needs a semantic context and is skipped without one.
var UnresolvedSymbol = lint.RuleDef{
	Name:             "UnresolvedSymbol",
	Description:      "Identifiers should resolve to a visible declaration.",
	RequiresTypeInfo: true,
	Options:          map[string]any{"ignore": []string{"_"}},
	Check:            checkUnresolvedSymbol,
}

func checkUnresolvedSymbol(p *lint.Pass) ([]lint.Finding, error) {
	if p.Semantic == nil {
		return nil, nil
	}
	ignore := make(map[string]bool)
	for _, name := range lint.GetStringSliceOption(p.Config, "ignore", []string{"_"}) {
		ignore[name] = true
	}

	tree := p.Tree()
	var findings []lint.Finding
	for _, leaf := range tree.Leaves() {
		n := tree.Node(leaf)
		if !identifierKinds[n.Kind] || ignore[n.Text] {
			continue
		}
		if !p.Semantic.Defined(p.Path(), n.Text) {
			findings = append(findings, p.NewFinding(leaf, "unresolved symbol %q", n.Text))
		}
	}
	return findings, nil
}
