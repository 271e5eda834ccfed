// Package rules bundles the built-in rule sets.
//
// To register every built-in rule set with the global provider registry, import this
// package with a blank identifier:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/rules"
//
// Individual rule sets can also be imported:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/rules/style"
//	import _ "github.com/leapstack-labs/leaplint/pkg/rules/formatting"
package rules
