// Package core defines the shared vocabulary of leaplint.
//
// This package contains:
//   - Severity levels and their parsing
//   - RuleInfo, the documentation/tooling view of a rule
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
