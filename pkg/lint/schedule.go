package lint

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leaplint/internal/dag"
)

// Schedule orders rules under their run-after and run-late constraints.
//
// Rules that implement Ordered may name rules that must run before them, matched by
// id or by base id, and may ask to run late. Scheduling is a two-phase Kahn traversal:
// first every rule that is not late, as soon as its predecessors have run, then
// everything left. Ties keep input order, so the result is deterministic.
//
// Predecessors that are not among rules are ignored. When constraints form a cycle the
// rules that could be ordered are returned together with a *CycleError naming the rest.
func Schedule(rules []Rule) ([]Rule, error) {
	g := dag.NewGraph()
	byID := make(map[string]Rule, len(rules))
	byBase := make(map[string][]string, len(rules))
	for _, r := range rules {
		id := r.ID()
		if _, dup := byID[id]; dup {
			return nil, &ConfigError{Subject: id, Err: ErrDuplicateRule}
		}
		byID[id] = r
		g.AddNode(id)
		if base := BaseID(id); base != id {
			byBase[base] = append(byBase[base], id)
		}
	}

	for _, r := range rules {
		for _, after := range runsAfter(r) {
			var preds []string
			if _, ok := byID[after]; ok {
				preds = append(preds, after)
			}
			for _, variant := range byBase[after] {
				if variant != r.ID() {
					preds = append(preds, variant)
				}
			}
			for _, pred := range preds {
				if err := g.AddEdge(pred, r.ID()); err != nil {
					if errors.Is(err, dag.ErrSelfLoop) {
						return nil, &CycleError{Unresolved: []string{r.ID()}, Cycle: []string{r.ID(), r.ID()}}
					}
					return nil, fmt.Errorf("schedule %s: %w", r.ID(), err)
				}
			}
		}
	}

	ids, unresolved := g.Drain(func(id string) bool {
		return runsLate(byID[id])
	})

	ordered := make([]Rule, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, byID[id])
	}
	if len(unresolved) > 0 {
		_, cycle := g.HasCycle()
		return ordered, &CycleError{Unresolved: unresolved, Cycle: cycle}
	}
	return ordered, nil
}
