package lint

import (
	"fmt"
)

// RuleSet is a named group of rule factories sharing one configuration namespace.
// Factories keep their declaration order. Rules may be bundled into composite groups
// whose members share one pass over a unit and are ordered by the scheduler.
type RuleSet struct {
	id        string
	names     []string
	factories map[string]RuleFactory
	groupOf   map[string]string
	groups    []string
	members   map[string][]string
}

// NewRuleSet creates an empty rule set.
func NewRuleSet(id string) *RuleSet {
	return &RuleSet{
		id:        id,
		factories: make(map[string]RuleFactory),
		groupOf:   make(map[string]string),
		members:   make(map[string][]string),
	}
}

// ID returns the rule set id.
func (rs *RuleSet) ID() string { return rs.id }

// Add registers a rule factory under name.
// Rule names are unique within a rule set; a duplicate is an installation bug and panics.
func (rs *RuleSet) Add(name string, factory RuleFactory) *RuleSet {
	if _, dup := rs.factories[name]; dup {
		panic(fmt.Sprintf("lint: rule %q registered twice in rule set %q", name, rs.id))
	}
	rs.names = append(rs.names, name)
	rs.factories[name] = factory
	return rs
}

// AddDefs registers data-driven rules.
func (rs *RuleSet) AddDefs(defs ...RuleDef) *RuleSet {
	for _, def := range defs {
		rs.Add(def.Name, def.Factory())
	}
	return rs
}

// AddComposite registers data-driven rules as members of a composite group.
func (rs *RuleSet) AddComposite(group string, defs ...RuleDef) *RuleSet {
	for _, def := range defs {
		rs.AddToGroup(group, def.Name, def.Factory())
	}
	return rs
}

// AddToGroup registers a rule factory as a member of a composite group.
func (rs *RuleSet) AddToGroup(group, name string, factory RuleFactory) *RuleSet {
	rs.Add(name, factory)
	if _, ok := rs.members[group]; !ok {
		rs.groups = append(rs.groups, group)
	}
	rs.groupOf[name] = group
	rs.members[group] = append(rs.members[group], name)
	return rs
}

// Names returns the rule names in declaration order.
func (rs *RuleSet) Names() []string {
	return append([]string(nil), rs.names...)
}

// Factory returns the factory registered under name.
func (rs *RuleSet) Factory(name string) (RuleFactory, bool) {
	f, ok := rs.factories[name]
	return f, ok
}

// GroupOf returns the composite group of a rule, or "" for standalone rules.
func (rs *RuleSet) GroupOf(name string) string {
	return rs.groupOf[name]
}

// Groups returns the composite group names in declaration order.
func (rs *RuleSet) Groups() []string {
	return append([]string(nil), rs.groups...)
}

// GroupMembers returns every rule declared in a group, active or not.
func (rs *RuleSet) GroupMembers(group string) []string {
	return append([]string(nil), rs.members[group]...)
}
