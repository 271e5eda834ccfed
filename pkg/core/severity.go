package core

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a finding.
type Severity int

// Severity levels for findings.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// DefaultSeverity is used when neither a rule nor its rule set configures one.
const DefaultSeverity = SeverityError

// ErrUnknownSeverity is returned by ParseSeverity for unrecognized names.
var ErrUnknownSeverity = errors.New("unknown severity")

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so severities render by name in JSON.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a case-insensitive name to a Severity value.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "hint":
		return SeverityHint, nil
	default:
		return DefaultSeverity, fmt.Errorf("%w: %q (expected error, warning, info or hint)", ErrUnknownSeverity, s)
	}
}

// AtLeast reports whether s is as severe as min or more.
// Lower values are more severe.
func (s Severity) AtLeast(min Severity) bool {
	return s <= min
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a resolved rule for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type RuleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	RuleSet     string   `json:"rule_set"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Active      bool     `json:"active"`
	Correctable bool     `json:"correctable"`
	Group       string   `json:"group,omitempty"` // composite group, empty for atomic rules
	URL         string   `json:"url,omitempty"`
}
