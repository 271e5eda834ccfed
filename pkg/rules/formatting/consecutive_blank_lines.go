package formatting

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

const defaultMaxBlankLines = 1

// NoConsecutiveBlankLines reports runs of blank lines longer than max and removes the
// excess. Lines holding only whitespace count as blank.
var NoConsecutiveBlankLines = lint.RuleDef{
	Name:            "NoConsecutiveBlankLines",
	Description:     "There should be at most max consecutive blank lines.",
	Correctable:     true,
	ActiveByDefault: true,
	Options:         map[string]any{"max": defaultMaxBlankLines},
	After:           []string{TrailingWhitespace.Name},
	Check:           checkNoConsecutiveBlankLines,
}

// blankRun is a sequence of newline and whitespace leaves between two content leaves.
type blankRun struct {
	leaves       []syntax.NodeID
	newlines     []int // indexes into leaves
	afterContent bool
}

func checkNoConsecutiveBlankLines(p *lint.Pass) ([]lint.Finding, error) {
	limit := lint.GetIntOption(p.Config, "max", defaultMaxBlankLines)
	if limit < 0 {
		limit = defaultMaxBlankLines
	}

	tree := p.Tree()
	var findings []lint.Finding
	var fixes []syntax.NodeID
	for _, run := range blankRuns(tree) {
		// The first newline after content ends that content's line.
		keep := limit
		if run.afterContent {
			keep++
		}
		if len(run.newlines) <= keep {
			continue
		}
		excess := len(run.newlines) - keep
		first := run.leaves[run.newlines[keep]]
		findings = append(findings, report(p, first, "%d consecutive blank lines (max %d)", excess+limit, limit))
		// Drop everything after the last kept newline up to and including the last
		// newline of the run; indentation of the next line stays.
		from := 0
		if keep > 0 {
			from = run.newlines[keep-1] + 1
		}
		to := run.newlines[len(run.newlines)-1]
		fixes = append(fixes, run.leaves[from:to+1]...)
	}
	if p.AutoCorrect {
		for _, leaf := range fixes {
			tree.Remove(leaf)
		}
	}
	return findings, nil
}

func blankRuns(tree *syntax.Tree) []blankRun {
	var (
		runs    []blankRun
		cur     blankRun
		content bool
	)
	flush := func() {
		if len(cur.newlines) > 0 {
			runs = append(runs, cur)
		}
		cur = blankRun{afterContent: content}
	}
	for _, leaf := range tree.Leaves() {
		switch tree.Kind(leaf) {
		case syntax.KindNewline:
			cur.newlines = append(cur.newlines, len(cur.leaves))
			cur.leaves = append(cur.leaves, leaf)
		case syntax.KindWhitespace:
			cur.leaves = append(cur.leaves, leaf)
		default:
			if tree.Node(leaf).Text == "" {
				continue
			}
			content = true
			flush()
		}
	}
	flush()
	return runs
}
