package style

import "github.com/leapstack-labs/leaplint/pkg/lint"

// RuleSetID is the configuration key of the style rule set.
const RuleSetID = "style"

func init() {
	lint.RegisterProvider(Provider)
}

// Provider builds the style rule set.
var Provider = lint.StaticProvider(RuleSetID, func(rs *lint.RuleSet) {
	rs.AddDefs(MaxLineLength, TooManyLines, UnresolvedSymbol)
})
