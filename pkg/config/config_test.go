package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/config"
)

func testConfig() *config.Config {
	return config.New(map[string]any{
		"style": map[string]any{
			"active":   true,
			"severity": "warning",
			"excludes": []any{"**/generated/**"},
			"MaxLineLength": map[string]any{
				"active":        true,
				"maxLineLength": 100,
			},
			"MaxLineLength/strict": map[string]any{
				"maxLineLength": 80,
			},
		},
		"formatting.active": false,
	})
}

func TestConfig_SubAndKeys(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, []string{"formatting", "style"}, cfg.Keys())

	style := cfg.Sub("style")
	assert.Equal(t, "style", style.Key())
	assert.Equal(t, "style", style.Path())
	assert.Same(t, cfg, style.Parent())
	assert.Equal(t,
		[]string{"MaxLineLength", "MaxLineLength/strict", "active", "excludes", "severity"},
		style.Keys())

	rule := style.Sub("MaxLineLength")
	assert.Equal(t, "style.MaxLineLength", rule.Path())
	assert.Equal(t, 100, rule.Int("maxLineLength", 120))
	assert.True(t, rule.Bool("active", false))

	variant := style.Sub("MaxLineLength/strict")
	assert.Equal(t, 80, variant.Int("maxLineLength", 120))
	assert.False(t, variant.Bool("active", false))
}

func TestConfig_DottedKeysExpand(t *testing.T) {
	cfg := testConfig()
	formatting := cfg.Sub("formatting")
	require.True(t, formatting.Has("active"))
	assert.False(t, formatting.Bool("active", true))
}

func TestConfig_Defaults(t *testing.T) {
	cfg := testConfig().Sub("style")

	assert.Equal(t, "warning", cfg.String("severity", "error"))
	assert.Equal(t, "error", cfg.Sub("MaxLineLength").String("severity", "error"))
	assert.Equal(t, []string{"**/generated/**"}, cfg.Strings("excludes", nil))
	assert.Nil(t, cfg.Strings("includes", nil))
	assert.Equal(t, 7, cfg.Int("missing", 7))
}

func TestConfig_StringsFromCommaList(t *testing.T) {
	cfg := config.New(map[string]any{"excludes": "a/**, b/*.go ,"})
	assert.Equal(t, []string{"a/**", "b/*.go"}, cfg.Strings("excludes", nil))
}

func TestConfig_MissingSubIsEmpty(t *testing.T) {
	cfg := testConfig()
	missing := cfg.Sub("nope").Sub("deeper")

	assert.Empty(t, missing.Keys())
	assert.Equal(t, "nope.deeper", missing.Path())
	assert.True(t, missing.Bool("active", true))
}

func TestConfig_NilAndEmpty(t *testing.T) {
	var nilCfg *config.Config
	assert.Empty(t, nilCfg.Keys())
	assert.False(t, nilCfg.Has("x"))
	assert.Equal(t, "d", nilCfg.String("x", "d"))
	assert.Empty(t, nilCfg.Sub("x").Keys())

	empty := config.Empty()
	assert.Empty(t, empty.Keys())
	assert.Equal(t, "", empty.Key())
	assert.Nil(t, empty.Parent())
}

func TestConfig_GetRaw(t *testing.T) {
	cfg := testConfig().Sub("style").Sub("MaxLineLength")
	v, ok := cfg.Get("maxLineLength")
	require.True(t, ok)
	assert.EqualValues(t, 100, v)

	_, ok = cfg.Get("missing")
	assert.False(t, ok)
	assert.Contains(t, cfg.Raw(), "active")
}
