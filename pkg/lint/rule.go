package lint

import (
	"github.com/leapstack-labs/leaplint/pkg/config"
)

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the rule id, the configuration key the rule was instantiated under,
	// e.g. "MaxLineLength" or "MaxLineLength/strict".
	ID() string

	// Description returns a human-readable description.
	Description() string

	// Correctable reports whether the rule rewrites the tree to fix what it reports.
	Correctable() bool

	// RequiresTypeInfo reports whether the rule needs a SemanticContext.
	RequiresTypeInfo() bool

	// Check inspects the unit in pass and returns its findings.
	Check(pass *Pass) ([]Finding, error)
}

// Ordered is implemented by rules that constrain their position inside a composite.
type Ordered interface {
	// RunsAfter lists rule ids that must run before this rule.
	RunsAfter() []string
	// RunsLate asks to run after every rule that does not.
	RunsLate() bool
}

// RuleFactory instantiates a rule from its configuration. The rule id is the key
// of cfg; an empty configuration yields an instance used to read metadata.
type RuleFactory func(cfg *config.Config) Rule

// CheckFunc analyzes a unit on behalf of a RuleDef.
type CheckFunc func(pass *Pass) ([]Finding, error)

// RuleDef is a data-driven rule definition.
// Rules are stateless; all context comes via the Pass.
type RuleDef struct {
	Name             string         // Base rule id, e.g. "MaxLineLength"
	Description      string         // Human-readable description
	Correctable      bool           // Check rewrites the tree when pass.AutoCorrect is set
	RequiresTypeInfo bool           // Skipped without a SemanticContext
	ActiveByDefault  bool           // Written as active by DefaultConfig
	Options          map[string]any // Option defaults, written by DefaultConfig
	After            []string       // Rules of the same composite that must run first
	Late             bool           // Run after the other rules of the composite
	Check            CheckFunc      // The check function
}

// Factory returns a RuleFactory producing wrapped instances of def.
func (def RuleDef) Factory() RuleFactory {
	return func(cfg *config.Config) Rule {
		return WrapRuleDef(def, cfg)
	}
}

// wrappedRuleDef wraps a RuleDef to implement Rule and Ordered.
type wrappedRuleDef struct {
	def RuleDef
	id  string
}

// WrapRuleDef wraps a RuleDef instantiated under cfg.
func WrapRuleDef(def RuleDef, cfg *config.Config) Rule {
	id := cfg.Key()
	if id == "" {
		id = def.Name
	}
	return &wrappedRuleDef{def: def, id: id}
}

func (w *wrappedRuleDef) ID() string             { return w.id }
func (w *wrappedRuleDef) Description() string    { return w.def.Description }
func (w *wrappedRuleDef) Correctable() bool      { return w.def.Correctable }
func (w *wrappedRuleDef) RequiresTypeInfo() bool { return w.def.RequiresTypeInfo }
func (w *wrappedRuleDef) RunsAfter() []string    { return w.def.After }
func (w *wrappedRuleDef) RunsLate() bool         { return w.def.Late }

func (w *wrappedRuleDef) Check(pass *Pass) ([]Finding, error) {
	if w.def.Check == nil {
		return nil, nil
	}
	return w.def.Check(pass)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}

// runsAfter returns the ordering constraints of r, if any.
func runsAfter(r Rule) []string {
	if o, ok := r.(Ordered); ok {
		return o.RunsAfter()
	}
	return nil
}

func runsLate(r Rule) bool {
	if o, ok := r.(Ordered); ok {
		return o.RunsLate()
	}
	return false
}
