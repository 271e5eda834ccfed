package lint_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

var typeAware = lint.RuleDef{
	Name:             "TypeAware",
	Description:      "needs symbols",
	RequiresTypeInfo: true,
}

func TestResolve_ActivationTable(t *testing.T) {
	tests := []struct {
		name       string
		ruleSet    map[string]any
		wantActive bool
	}{
		{
			name:       "rule set inactive, rule active",
			ruleSet:    map[string]any{"active": false, "EveryUnit": map[string]any{"active": true}},
			wantActive: false,
		},
		{
			name:       "rule set active, rule unset",
			ruleSet:    map[string]any{"active": true, "EveryUnit": map[string]any{}},
			wantActive: false,
		},
		{
			name:       "rule set active, rule active",
			ruleSet:    map[string]any{"active": true, "EveryUnit": map[string]any{"active": true}},
			wantActive: true,
		},
		{
			name:       "rule set unset defaults to active",
			ruleSet:    map[string]any{"EveryUnit": map[string]any{"active": true}},
			wantActive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs := resolve(t, []lint.RuleSetProvider{provider("rs", everyUnit)}, map[string]any{"rs": tt.ruleSet})
			require.Len(t, descs, 1)
			assert.Equal(t, tt.wantActive, descs[0].Active)
		})
	}
}

func TestResolve_SeverityResolution(t *testing.T) {
	tests := []struct {
		name    string
		ruleSet map[string]any
		want    core.Severity
	}{
		{
			name:    "rule set severity applies",
			ruleSet: map[string]any{"severity": "warning", "EveryUnit": map[string]any{"active": true}},
			want:    core.SeverityWarning,
		},
		{
			name:    "rule severity overrides rule set",
			ruleSet: map[string]any{"severity": "warning", "EveryUnit": map[string]any{"active": true, "severity": "error"}},
			want:    core.SeverityError,
		},
		{
			name:    "fixed default",
			ruleSet: map[string]any{"EveryUnit": map[string]any{"active": true}},
			want:    core.DefaultSeverity,
		},
		{
			name:    "case insensitive",
			ruleSet: map[string]any{"EveryUnit": map[string]any{"active": true, "severity": "INFO"}},
			want:    core.SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs := resolve(t, []lint.RuleSetProvider{provider("rs", everyUnit)}, map[string]any{"rs": tt.ruleSet})
			require.Len(t, descs, 1)
			assert.Equal(t, tt.want, descs[0].Severity)
		})
	}
}

func TestResolve_UnknownSeverityFailsAtSetup(t *testing.T) {
	for name, values := range map[string]map[string]any{
		"rule":     {"rs": map[string]any{"EveryUnit": map[string]any{"active": true, "severity": "fatal"}}},
		"rule set": {"rs": map[string]any{"severity": "loud", "EveryUnit": map[string]any{"active": true}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := lint.Resolve([]lint.RuleSetProvider{provider("rs", everyUnit)}, config.New(values), true, nil)
			require.Error(t, err)

			var cfgErr *lint.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.ErrorIs(t, err, core.ErrUnknownSeverity)
		})
	}
}

func TestResolve_IgnoresUnmatchedKeys(t *testing.T) {
	values := map[string]any{
		"rs": map[string]any{
			"active":         true,
			"RenamedLongAgo": map[string]any{"active": true},
			"EveryUnit":      map[string]any{"active": true},
		},
		"unknown_rule_set": map[string]any{"Whatever": map[string]any{"active": true}},
	}
	descs := resolve(t, []lint.RuleSetProvider{provider("rs", everyUnit)}, values)
	require.Len(t, descs, 1)
	assert.Equal(t, "EveryUnit", descs[0].RuleID)
}

func TestResolve_VariantKeys(t *testing.T) {
	values := map[string]any{
		"rs": map[string]any{
			"EveryUnit":        map[string]any{"active": true},
			"EveryUnit/strict": map[string]any{"active": true, "severity": "hint"},
		},
	}
	descs := resolve(t, []lint.RuleSetProvider{provider("rs", everyUnit)}, values)
	require.Len(t, descs, 2)

	assert.Equal(t, "EveryUnit", descs[0].RuleID)
	assert.Equal(t, "EveryUnit/strict", descs[1].RuleID)
	assert.Equal(t, "EveryUnit", descs[1].RuleName)
	assert.Equal(t, core.SeverityHint, descs[1].Severity)
	assert.Equal(t, "EveryUnit/strict", descs[1].Instantiate().ID())
}

func TestResolve_RequiresTypeInfo(t *testing.T) {
	values := map[string]any{"rs": active("TypeAware")}
	providers := []lint.RuleSetProvider{provider("rs", typeAware)}

	t.Run("without full analysis", func(t *testing.T) {
		rec, logger := testutil.NewRecorder()
		descs, err := lint.Resolve(providers, config.New(values), false, logger)
		require.NoError(t, err)
		require.Len(t, descs, 1)
		assert.False(t, descs[0].Active)
		assert.True(t, descs[0].RequiresTypeInfo)
		assert.Len(t, rec.Messages(slog.LevelWarn), 1)

		rule, ok := rec.Attr(rec.Messages(slog.LevelWarn)[0], "rule")
		require.True(t, ok)
		assert.Equal(t, "TypeAware", rule.String())
	})

	t.Run("with full analysis", func(t *testing.T) {
		rec, logger := testutil.NewRecorder()
		descs, err := lint.Resolve(providers, config.New(values), true, logger)
		require.NoError(t, err)
		require.Len(t, descs, 1)
		assert.True(t, descs[0].Active)
		assert.Empty(t, rec.Messages(slog.LevelWarn))
	})
}

func TestResolve_MetadataAndOrder(t *testing.T) {
	providers := []lint.RuleSetProvider{
		provider("second", everyUnit),
		provider("first", stripTrailing, collapseBlankLines),
	}
	values := map[string]any{
		"first":  active("StripTrailing", "CollapseBlankLines"),
		"second": active("EveryUnit"),
	}
	descs := resolve(t, providers, values)
	require.Len(t, descs, 3)

	// Provider order, then sorted keys.
	assert.Equal(t, "EveryUnit", descs[0].RuleID)
	assert.Equal(t, "CollapseBlankLines", descs[1].RuleID)
	assert.Equal(t, "StripTrailing", descs[2].RuleID)

	d := descs[2]
	assert.Equal(t, "first", d.RuleSetID)
	assert.True(t, d.Correctable)
	assert.Equal(t, "removes trailing whitespace", d.Description)
	assert.Equal(t, lint.BuildDocURL("first", "StripTrailing"), d.URL)

	info := d.Info()
	assert.Equal(t, "first", info.RuleSet)
	assert.True(t, info.Active)
}

func TestResolve_DoesNotDeduplicate(t *testing.T) {
	providers := []lint.RuleSetProvider{provider("a", everyUnit), provider("b", everyUnit)}
	values := map[string]any{"a": active("EveryUnit"), "b": active("EveryUnit")}

	descs := resolve(t, providers, values)
	require.Len(t, descs, 2)
	assert.Equal(t, "a", descs[0].RuleSetID)
	assert.Equal(t, "b", descs[1].RuleSetID)
}

func TestResolve_CompositeGroup(t *testing.T) {
	p := lint.StaticProvider("fmt", func(rs *lint.RuleSet) {
		rs.AddComposite("Whitespace", stripTrailing, collapseBlankLines)
		rs.AddDefs(everyUnit)
	})
	descs := resolve(t, []lint.RuleSetProvider{p}, map[string]any{"fmt": active("StripTrailing", "EveryUnit")})
	require.Len(t, descs, 2)

	assert.Equal(t, "", descs[0].Group)
	assert.Equal(t, "Whitespace", descs[1].Group)
	assert.Equal(t, []string{"StripTrailing", "CollapseBlankLines"}, descs[1].GroupMembers)
}

func TestBaseID(t *testing.T) {
	assert.Equal(t, "Rule", lint.BaseID("Rule"))
	assert.Equal(t, "Rule", lint.BaseID("Rule/variant"))
	assert.Equal(t, "Rule", lint.BaseID("Rule/a/b"))
}
