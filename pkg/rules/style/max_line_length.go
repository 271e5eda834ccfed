package style

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

const defaultMaxLineLength = 120

// MaxLineLength reports lines longer than the configured limit.
var MaxLineLength = lint.RuleDef{
	Name:            "MaxLineLength",
	Description:     "Lines should not exceed maxLineLength bytes.",
	ActiveByDefault: true,
	Options:         map[string]any{"maxLineLength": defaultMaxLineLength},
	Check:           checkMaxLineLength,
}

func checkMaxLineLength(p *lint.Pass) ([]lint.Finding, error) {
	limit := lint.GetIntOption(p.Config, "maxLineLength", defaultMaxLineLength)
	if limit <= 0 {
		return nil, nil
	}

	var findings []lint.Finding
	for i, line := range strings.Split(p.Tree().Text(), "\n") {
		if len(line) <= limit {
			continue
		}
		f := p.NewFindingAt(syntax.Position{Line: i + 1, Column: limit + 1},
			"line is %d bytes long, limit is %d", len(line), limit)
		f.EndPos = syntax.Position{Line: i + 1, Column: len(line) + 1}
		findings = append(findings, f)
	}
	return findings, nil
}
