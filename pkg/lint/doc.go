// Package lint is the rule execution engine of leaplint.
//
// # Architecture
//
// A run flows through four stages:
//
//  1. Providers (RuleSetProvider) are registered from init() and build RuleSets.
//  2. Resolve turns providers plus hierarchical configuration into RuleDescriptors,
//     deciding activation and severity.
//  3. An Analyzer runs the active rules over SourceUnits, sequentially or on a bounded
//     worker pool, isolating per-unit failures.
//  4. The Result aggregates findings by rule set, with metrics and notifications.
//
// # Rule Registration
//
// Rule sets register a provider from init() and are enabled by importing their package:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/rules/style"
//
// # Configuration
//
// Each rule set reads the configuration key named after its id. Rule keys inside it may
// carry a variant suffix, which lets one rule run twice with different options:
//
//	style:
//	  active: true
//	  severity: warning
//	  MaxLineLength:
//	    active: true
//	    maxLineLength: 120
//	  MaxLineLength/strict:
//	    active: true
//	    maxLineLength: 80
//	    severity: error
//	    includes: ["cmd/**"]
//
// # Composite Rules
//
// Rules added with RuleSet.AddComposite share one pass over a unit. Their relative order
// is computed once by Schedule from RuleDef.After and RuleDef.Late.
//
// # Creating Custom Rules
//
//	var NoTodo = lint.RuleDef{
//		Name:        "NoTodo",
//		Description: "TODO comments must reference an issue",
//		Check:       checkNoTodo,
//	}
//
//	func init() {
//		lint.RegisterProvider(lint.StaticProvider("custom", func(rs *lint.RuleSet) {
//			rs.AddDefs(NoTodo)
//		}))
//	}
package lint
