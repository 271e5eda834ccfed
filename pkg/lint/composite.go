package lint

import (
	"errors"
	"fmt"
)

// Composite bundles rules that share one pass over a unit.
// Members run in the order computed by Schedule when the composite is built.
type Composite struct {
	id      string
	members []member
}

type member struct {
	rule Rule
	desc *RuleDescriptor // nil for composites built from bare rules
}

var _ Rule = (*Composite)(nil)

// NewComposite schedules rules into a composite named id.
func NewComposite(id string, rules ...Rule) (*Composite, error) {
	members := make([]member, len(rules))
	for i, r := range rules {
		members[i] = member{rule: r}
	}
	return newComposite(id, members)
}

func newComposite(id string, members []member) (*Composite, error) {
	rules := make([]Rule, len(members))
	byID := make(map[string]member, len(members))
	for i, m := range members {
		rules[i] = m.rule
		byID[m.rule.ID()] = m
	}

	ordered, err := Schedule(rules)
	if err != nil {
		var ce *CycleError
		if errors.As(err, &ce) {
			ce.Group = id
		}
		return nil, err
	}

	c := &Composite{id: id, members: make([]member, len(ordered))}
	for i, r := range ordered {
		c.members[i] = byID[r.ID()]
	}
	return c, nil
}

// ID returns the composite's group name.
func (c *Composite) ID() string { return c.id }

// Description summarizes the composite.
func (c *Composite) Description() string {
	return fmt.Sprintf("%s (%d rules)", c.id, len(c.members))
}

// Correctable reports whether any member is correctable.
func (c *Composite) Correctable() bool {
	for _, m := range c.members {
		if m.rule.Correctable() {
			return true
		}
	}
	return false
}

// RequiresTypeInfo reports whether every member requires type information.
// Members that need it are skipped individually otherwise.
func (c *Composite) RequiresTypeInfo() bool {
	for _, m := range c.members {
		if !m.rule.RequiresTypeInfo() {
			return false
		}
	}
	return len(c.members) > 0
}

// Rules returns the members in execution order.
func (c *Composite) Rules() []Rule {
	out := make([]Rule, len(c.members))
	for i, m := range c.members {
		out[i] = m.rule
	}
	return out
}

// Check runs every applicable member in order and concatenates their findings.
// Each member sees the tree as left by the members before it.
func (c *Composite) Check(pass *Pass) ([]Finding, error) {
	var findings []Finding
	for _, m := range c.members {
		if !pass.ruleApplies(m.rule.ID()) {
			continue
		}
		if m.rule.RequiresTypeInfo() && pass.Semantic == nil {
			continue
		}
		fs, err := m.rule.Check(pass.forMember(m))
		if err != nil {
			return findings, &UnitError{Path: pass.Path(), RuleID: m.rule.ID(), Err: err}
		}
		findings = append(findings, fs...)
	}
	return findings, nil
}

// correctableFor reports whether any member applicable to the pass is correctable.
func (c *Composite) correctableFor(pass *Pass) bool {
	for _, m := range c.members {
		if m.rule.Correctable() && pass.ruleApplies(m.rule.ID()) {
			return true
		}
	}
	return false
}
