package formatting

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

const (
	// RuleSetID is the configuration key of the formatting rule set.
	RuleSetID = "formatting"
	// Group is the composite group every formatting rule belongs to.
	Group = "Formatting"
)

func init() {
	lint.RegisterProvider(Provider)
}

// Provider builds the formatting rule set.
var Provider = lint.StaticProvider(RuleSetID, func(rs *lint.RuleSet) {
	rs.AddComposite(Group, NoTabs, TrailingWhitespace, NoConsecutiveBlankLines, FinalNewline)
})

// report builds a finding for node. It must be called before the node is corrected.
func report(p *lint.Pass, node syntax.NodeID, format string, args ...any) lint.Finding {
	f := p.NewFinding(node, format, args...)
	f.Correctable = true
	f.Corrected = p.AutoCorrect
	return f
}
