package lint_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

func textUnit(t *testing.T, path, text string) *lint.SourceUnit {
	t.Helper()
	u, err := lint.ParseUnit(context.Background(), syntax.TextParser{}, path, []byte(text))
	require.NoError(t, err)
	return u
}

func resolve(t *testing.T, providers []lint.RuleSetProvider, values map[string]any) []lint.RuleDescriptor {
	t.Helper()
	descs, err := lint.Resolve(providers, config.New(values), true, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return descs
}

func newAnalyzer(t *testing.T, descs []lint.RuleDescriptor, opts ...lint.Option) *lint.Analyzer {
	t.Helper()
	opts = append([]lint.Option{lint.WithLogger(testutil.NewTestLogger(t))}, opts...)
	a, err := lint.NewAnalyzer(descs, opts...)
	require.NoError(t, err)
	return a
}

func provider(id string, defs ...lint.RuleDef) lint.RuleSetProvider {
	return lint.StaticProvider(id, func(rs *lint.RuleSet) {
		rs.AddDefs(defs...)
	})
}

// active builds a rule set configuration activating the named rules.
func active(names ...string) map[string]any {
	m := map[string]any{}
	for _, n := range names {
		m[n] = map[string]any{"active": true}
	}
	return m
}

// lineCounter reports the unit's line count as it sees it.
var lineCounter = lint.RuleDef{
	Name:        "ALineCounter",
	Description: "reports the number of lines",
	Check: func(p *lint.Pass) ([]lint.Finding, error) {
		return []lint.Finding{p.NewFinding(syntax.NoNode, "lines=%d", p.Tree().LineCount())}, nil
	},
}

// collapseBlankLines removes empty lines.
var collapseBlankLines = lint.RuleDef{
	Name:        "CollapseBlankLines",
	Description: "removes empty lines",
	Correctable: true,
	Check: func(p *lint.Pass) ([]lint.Finding, error) {
		tree := p.Tree()
		var out []lint.Finding
		for _, line := range syntax.LineNodes(tree) {
			children := tree.Children(line)
			if len(children) != 1 || tree.Kind(children[0]) != syntax.KindNewline {
				continue
			}
			out = append(out, p.NewFinding(line, "blank line"))
			if p.AutoCorrect {
				tree.Remove(line)
			}
		}
		return out, nil
	},
}

// stripTrailing removes whitespace before newlines.
var stripTrailing = lint.RuleDef{
	Name:        "StripTrailing",
	Description: "removes trailing whitespace",
	Correctable: true,
	Check: func(p *lint.Pass) ([]lint.Finding, error) {
		tree := p.Tree()
		leaves := tree.Leaves()
		var out []lint.Finding
		for i := 0; i+1 < len(leaves); i++ {
			if tree.Kind(leaves[i]) == syntax.KindWhitespace && tree.Kind(leaves[i+1]) == syntax.KindNewline {
				out = append(out, p.NewFinding(leaves[i], "trailing whitespace"))
				if p.AutoCorrect {
					tree.Remove(leaves[i])
				}
			}
		}
		return out, nil
	},
}

// everyUnit reports one finding per unit.
var everyUnit = lint.RuleDef{
	Name:        "EveryUnit",
	Description: "reports once per unit",
	Check: func(p *lint.Pass) ([]lint.Finding, error) {
		return []lint.Finding{p.NewFinding(p.Tree().Root(), "seen")}, nil
	},
}

// explodeOn panics while checking the given path.
func explodeOn(path string) lint.RuleDef {
	return lint.RuleDef{
		Name:        "Explode",
		Description: "panics on one unit",
		Check: func(p *lint.Pass) ([]lint.Finding, error) {
			if p.Path() == path {
				panic("boom")
			}
			return nil, nil
		},
	}
}

// wordCount reports words matching a needle, one finding each.
func wordRule(name, needle string) lint.RuleDef {
	return lint.RuleDef{
		Name:        name,
		Description: "reports " + needle,
		Check: func(p *lint.Pass) ([]lint.Finding, error) {
			tree := p.Tree()
			var out []lint.Finding
			for _, leaf := range tree.Leaves() {
				if tree.Kind(leaf) == syntax.KindWord && strings.Contains(tree.Node(leaf).Text, needle) {
					out = append(out, p.NewFinding(leaf, "found %s", needle))
				}
			}
			return out, nil
		},
	}
}

// recordingObserver counts lifecycle calls.
type recordingObserver struct {
	lint.BaseObserver

	mu        sync.Mutex
	started   int
	processed []string
	completed map[string]error
	finished  *lint.Result
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{completed: make(map[string]error)}
}

func (o *recordingObserver) OnStart(context.Context, []*lint.SourceUnit) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *recordingObserver) OnProcess(_ context.Context, u *lint.SourceUnit) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.processed = append(o.processed, u.Path)
}

func (o *recordingObserver) OnProcessComplete(_ context.Context, u *lint.SourceUnit, _ int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed[u.Path] = err
}

func (o *recordingObserver) OnFinish(_ context.Context, _ []*lint.SourceUnit, r *lint.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = r
}

type fakeSemantic map[string]bool

func (s fakeSemantic) Defined(_, name string) bool { return s[name] }
