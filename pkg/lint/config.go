package lint

import (
	"maps"

	"github.com/leapstack-labs/leaplint/pkg/config"
)

// Defaulted is implemented by rules that declare their default configuration.
type Defaulted interface {
	ActiveByDefault() bool
	DefaultOptions() map[string]any
}

func (w *wrappedRuleDef) ActiveByDefault() bool { return w.def.ActiveByDefault }

func (w *wrappedRuleDef) DefaultOptions() map[string]any {
	return maps.Clone(w.def.Options)
}

// DefaultConfig builds the configuration that activates every rule set and every rule
// that is active by default, with default options filled in.
func DefaultConfig(providers []RuleSetProvider) map[string]any {
	out := make(map[string]any, len(providers))
	for _, p := range providers {
		rs := p.Instance(config.Empty())
		if rs == nil {
			continue
		}
		rsCfg := map[string]any{"active": true}
		for _, name := range rs.Names() {
			factory, _ := rs.Factory(name)
			ruleCfg := map[string]any{"active": false}
			if d, ok := factory(config.Empty()).(Defaulted); ok {
				maps.Copy(ruleCfg, d.DefaultOptions())
				ruleCfg["active"] = d.ActiveByDefault()
			}
			rsCfg[name] = ruleCfg
		}
		out[p.ID()] = rsCfg
	}
	return out
}

// MergeConfig overlays user values on base, recursing into nested maps.
// Neither input is modified.
func MergeConfig(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	maps.Copy(out, base)
	for k, v := range overlay {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = MergeConfig(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}
