package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	clitest "github.com/leapstack-labs/leaplint/internal/cli/testutil"
	"github.com/leapstack-labs/leaplint/internal/testutil"
	pkgconfig "github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/observers"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// analyzeTexts runs the default rules over in-memory units keyed by path.
func analyzeTexts(t *testing.T, texts map[string]string) *lint.Result {
	t.Helper()
	providers := lint.Providers()
	descs, err := lint.Resolve(providers, pkgconfig.New(lint.DefaultConfig(providers)), false, testutil.NewTestLogger(t))
	require.NoError(t, err)
	a, err := lint.NewAnalyzer(descs,
		lint.WithLogger(testutil.NewTestLogger(t)),
		lint.WithObservers(observers.SizeObserver{}),
	)
	require.NoError(t, err)

	var units []*lint.SourceUnit
	for path, text := range texts {
		u, err := lint.ParseUnit(context.Background(), syntax.TextParser{}, path, []byte(text))
		require.NoError(t, err)
		units = append(units, u)
	}
	res, err := a.Analyze(context.Background(), units, nil)
	require.NoError(t, err)
	return res
}

func TestSortedFindings(t *testing.T) {
	res := analyzeTexts(t, map[string]string{
		"b.txt": "x \ny",
		"a.txt": "ok\n\n\n\nend \n",
	})

	got := sortedFindings(res)
	require.Len(t, got, 4)
	assert.Equal(t, "a.txt", got[0].Path)
	assert.Equal(t, "NoConsecutiveBlankLines", got[0].RuleID)
	assert.Equal(t, "a.txt", got[1].Path)
	assert.Equal(t, "TrailingWhitespace", got[1].RuleID)
	assert.Equal(t, "b.txt", got[2].Path)
	assert.Equal(t, 1, got[2].Pos.Line)
	assert.Equal(t, "b.txt", got[3].Path)
	assert.Equal(t, "FinalNewline", got[3].RuleID)
	for _, f := range got {
		assert.Equal(t, "formatting", f.RuleSet)
	}
}

func TestRenderResult_Text(t *testing.T) {
	res := analyzeTexts(t, map[string]string{"a.txt": "x \n"})
	tr := clitest.NewTestRenderer(output.ModeText, false)

	err := renderResult(tr.Renderer, res)
	require.ErrorIs(t, err, ErrFindings)
	clitest.AssertNoANSI(t, tr.Output())
	assert.Contains(t, tr.Output(), "a.txt\n")
	assert.Contains(t, tr.Output(), "1:2")
	assert.Contains(t, tr.Output(), "formatting/TrailingWhitespace")
	assert.Contains(t, tr.Output(), "Summary: 1 findings, 1 error in 1 units")
}

func TestRenderResult_Clean(t *testing.T) {
	res := analyzeTexts(t, map[string]string{"a.txt": "ok\n"})
	tr := clitest.NewTestRenderer(output.ModeAuto, false)

	require.NoError(t, renderResult(tr.Renderer, res))
	assert.Equal(t, "No findings in 1 units\n", tr.Output())
}

func TestRenderResult_JSON(t *testing.T) {
	res := analyzeTexts(t, map[string]string{"a.txt": "ok\n"})
	tr := clitest.NewTestRenderer(output.ModeJSON, true)

	require.NoError(t, renderResult(tr.Renderer, res))
	clitest.AssertNoANSI(t, tr.Output())
	assert.Contains(t, tr.Output(), `"run_id"`)
	assert.Contains(t, tr.Output(), `"findings": {}`)
}

func TestExitStatus(t *testing.T) {
	require.NoError(t, exitStatus(0, 0))
	require.ErrorIs(t, exitStatus(2, 0), ErrFindings)
	err := exitStatus(0, 1)
	require.ErrorIs(t, err, ErrFindings)
	assert.Contains(t, err.Error(), "1 failed units")
}
