package rules

// Import all rule set subpackages to register them with the global registry.
import (
	_ "github.com/leapstack-labs/leaplint/pkg/rules/formatting"
	_ "github.com/leapstack-labs/leaplint/pkg/rules/style"
)
