package lint

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for setup failures.
var (
	ErrInvalidPattern    = errors.New("invalid path pattern")
	ErrDuplicateRule     = errors.New("duplicate rule id")
	ErrUnknownDependency = errors.New("runs after an undeclared rule")
)

// ConfigError reports a defect in configuration or rule installation that
// prevents a run from starting.
type ConfigError struct {
	// Subject names what is misconfigured, e.g. "style.MaxLineLength".
	Subject string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration: %s: %v", e.Subject, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CycleError is returned when run-after constraints cannot be satisfied.
type CycleError struct {
	// Group is the composite whose children could not be ordered.
	Group string
	// Unresolved lists the ids left unscheduled, in declaration order.
	Unresolved []string
	// Cycle is one offending path, starting and ending with the same id.
	Cycle []string
}

func (e *CycleError) Error() string {
	msg := fmt.Sprintf("cannot order rules [%s]", strings.Join(e.Unresolved, ", "))
	if e.Group != "" {
		msg = fmt.Sprintf("%s: %s", e.Group, msg)
	}
	if len(e.Cycle) > 0 {
		msg += fmt.Sprintf(": cycle %s", strings.Join(e.Cycle, " -> "))
	}
	return msg
}

// OrphanFindingError is returned when a rule reports a finding under an id that no
// rule set owns. It means a rule is broken and aborts the run.
type OrphanFindingError struct {
	RuleID string
	Path   string
}

func (e *OrphanFindingError) Error() string {
	return fmt.Sprintf("finding for %s reported under unowned rule id %q", e.Path, e.RuleID)
}

// UnitError wraps a failure while analyzing a single unit.
type UnitError struct {
	Path   string
	RuleID string
	Err    error
}

func (e *UnitError) Error() string {
	if e.RuleID == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: rule %s: %v", e.Path, e.RuleID, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// panicError carries a recovered rule panic.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
