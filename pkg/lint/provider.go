package lint

import "github.com/leapstack-labs/leaplint/pkg/config"

// RuleSetProvider is an installable rule set factory.
type RuleSetProvider interface {
	// ID returns the rule set id, which is also its configuration key.
	ID() string
	// Instance builds the rule set for the given rule set configuration.
	Instance(cfg *config.Config) *RuleSet
}

type providerFunc struct {
	id string
	fn func(cfg *config.Config) *RuleSet
}

// NewProvider adapts a constructor function to RuleSetProvider.
func NewProvider(id string, fn func(cfg *config.Config) *RuleSet) RuleSetProvider {
	return &providerFunc{id: id, fn: fn}
}

func (p *providerFunc) ID() string { return p.id }

func (p *providerFunc) Instance(cfg *config.Config) *RuleSet {
	return p.fn(cfg)
}

// StaticProvider returns a provider whose rule set does not depend on configuration.
func StaticProvider(id string, build func(rs *RuleSet)) RuleSetProvider {
	return NewProvider(id, func(*config.Config) *RuleSet {
		rs := NewRuleSet(id)
		build(rs)
		return rs
	})
}
