package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/cli/testutil"
	"github.com/leapstack-labs/leaplint/pkg/core"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want output.Mode
	}{
		{"json", output.ModeJSON},
		{"JSON", output.ModeJSON},
		{"text", output.ModeText},
		{"auto", output.ModeAuto},
		{"", output.ModeAuto},
		{"markdown", output.ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, output.ParseMode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	assert.Equal(t, output.ModeText, testutil.NewTestRenderer(output.ModeAuto, false).EffectiveMode())
	assert.Equal(t, output.ModeText, testutil.NewTestRenderer(output.ModeText, true).EffectiveMode())
	assert.Equal(t, output.ModeJSON, testutil.NewTestRenderer(output.ModeJSON, true).EffectiveMode())
}

func TestRenderer_PlainWithoutTTY(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText, false)
	assert.False(t, tr.IsTTY())

	tr.Success("done")
	tr.Println(tr.Styles().Severity(core.SeverityError).Render("error"))
	tr.Errorf("warn %d\n", 1)

	testutil.AssertNoANSI(t, tr.Output())
	assert.Equal(t, "done\nerror\n", tr.Output())
	assert.Equal(t, "warn 1\n", tr.ErrorOutput())

	tr.Reset()
	assert.Empty(t, tr.Output())
}

func TestRenderer_JSON(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeJSON, true)
	require.NoError(t, tr.JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", tr.Output())
	testutil.AssertNoANSI(t, tr.Output())
}
