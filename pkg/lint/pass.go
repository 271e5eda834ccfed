package lint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// Pass carries everything one rule needs while checking one unit.
type Pass struct {
	Context  context.Context
	Unit     *SourceUnit
	Semantic SemanticContext // nil when no type information is available
	Logger   *slog.Logger

	RuleID      string
	RuleSetID   string
	Severity    core.Severity
	URL         string
	Config      *config.Config // the rule's own configuration
	AutoCorrect bool           // correctable rules may rewrite Unit.Tree

	applies func(ruleID string) bool
}

// Tree returns the unit's syntax tree.
func (p *Pass) Tree() *syntax.Tree {
	return p.Unit.Tree
}

// Path returns the unit's path.
func (p *Pass) Path() string {
	return p.Unit.Path
}

// NewFinding builds a finding for node, stamped with the rule's identity and severity.
func (p *Pass) NewFinding(node syntax.NodeID, format string, args ...any) Finding {
	f := Finding{
		RuleID:           p.RuleID,
		Severity:         p.Severity,
		Message:          fmt.Sprintf(format, args...),
		Path:             p.Unit.Path,
		DocumentationURL: p.URL,
	}
	if node != syntax.NoNode {
		f.Pos = p.Unit.Tree.Position(node)
		f.EndPos = p.Unit.Tree.End(node)
	}
	return f
}

// NewFindingAt builds a finding at a position that has no node of its own,
// such as a column inside a line.
func (p *Pass) NewFindingAt(at syntax.Position, format string, args ...any) Finding {
	f := p.NewFinding(syntax.NoNode, format, args...)
	f.Pos = at
	return f
}

// Corrected builds a finding for a violation the rule has already fixed.
// Position is taken before the fix is applied by the caller.
func (p *Pass) Corrected(at syntax.Position, format string, args ...any) Finding {
	return Finding{
		RuleID:           p.RuleID,
		Severity:         p.Severity,
		Message:          fmt.Sprintf(format, args...),
		Path:             p.Unit.Path,
		Pos:              at,
		DocumentationURL: p.URL,
		Correctable:      true,
		Corrected:        true,
	}
}

// ruleApplies reports whether a rule may run on this pass's unit.
func (p *Pass) ruleApplies(ruleID string) bool {
	return p.applies == nil || p.applies(ruleID)
}

// forMember derives the pass a composite member runs with.
func (p *Pass) forMember(m member) *Pass {
	child := *p
	child.RuleID = m.rule.ID()
	if m.desc != nil {
		child.RuleID = m.desc.RuleID
		child.RuleSetID = m.desc.RuleSetID
		child.Severity = m.desc.Severity
		child.URL = m.desc.URL
		child.Config = m.desc.Config
	}
	return &child
}
