package style

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

const defaultLineThreshold = 600

// TooManyLines reports units longer than the configured threshold.
var TooManyLines = lint.RuleDef{
	Name:            "TooManyLines",
	Description:     "Units should not be longer than threshold lines.",
	ActiveByDefault: false,
	Options:         map[string]any{"threshold": defaultLineThreshold},
	Check:           checkTooManyLines,
}

func checkTooManyLines(p *lint.Pass) ([]lint.Finding, error) {
	threshold := lint.GetIntOption(p.Config, "threshold", defaultLineThreshold)
	lines := p.Tree().LineCount()
	if threshold <= 0 || lines <= threshold {
		return nil, nil
	}
	return []lint.Finding{
		p.NewFindingAt(syntax.Position{Line: threshold + 1, Column: 1},
			"unit has %d lines, threshold is %d", lines, threshold),
	}, nil
}
