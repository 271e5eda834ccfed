package lint

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/core"
)

// RuleDescriptor is a resolved rule: its identity, effective severity and activation.
// Descriptors are read-only once built and safe to share across goroutines.
type RuleDescriptor struct {
	RuleID           string // Configuration key, possibly with a variant suffix
	RuleName         string // Base rule name the factory is registered under
	RuleSetID        string
	Description      string
	Severity         core.Severity
	Active           bool
	Correctable      bool
	RequiresTypeInfo bool
	Group            string   // Composite group, empty for standalone rules
	GroupMembers     []string // Every rule declared in Group
	URL              string

	// Config is the rule's own sub-configuration.
	Config *config.Config

	ruleSetConfig *config.Config
	factory       RuleFactory
}

// Info returns display metadata for the descriptor.
func (d RuleDescriptor) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:          d.RuleID,
		Name:        d.RuleName,
		RuleSet:     d.RuleSetID,
		Description: d.Description,
		Severity:    d.Severity,
		Active:      d.Active,
		Correctable: d.Correctable,
		Group:       d.Group,
		URL:         d.URL,
	}
}

// Instantiate creates the rule the descriptor describes.
func (d RuleDescriptor) Instantiate() Rule {
	if d.factory == nil {
		return nil
	}
	return d.factory(d.Config)
}

// BaseID strips a variant suffix: "MaxLineLength/strict" becomes "MaxLineLength".
func BaseID(key string) string {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i]
	}
	return key
}

// Resolve computes rule descriptors from providers and configuration.
//
// Each provider's rule set is configured under its id. Every key of that sub-configuration
// naming a declared rule (optionally with a "/variant" suffix) yields one descriptor; keys
// that match nothing are ignored. A rule is active when its rule set is active (default
// true) and the rule itself is active (default false). Rules that need type information
// are deactivated with a warning when fullAnalysis is false.
//
// Severity comes from the rule, then the rule set, then core.DefaultSeverity. An unknown
// severity is a *ConfigError. Descriptors follow provider order, then sorted keys; rules
// declared by several rule sets are not de-duplicated here.
func Resolve(providers []RuleSetProvider, cfg *config.Config, fullAnalysis bool, logger *slog.Logger) ([]RuleDescriptor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var out []RuleDescriptor
	for _, provider := range providers {
		rsID := provider.ID()
		sub := cfg.Sub(rsID)
		inst := provider.Instance(sub)
		if inst == nil {
			continue
		}

		rsActive := sub.Bool("active", true)
		rsSeverity, rsSeveritySet, err := severityOf(sub, rsID)
		if err != nil {
			return nil, err
		}

		for _, key := range sub.Keys() {
			name := BaseID(key)
			factory, ok := inst.Factory(name)
			if !ok {
				continue
			}

			meta := factory(config.Empty())
			ruleCfg := sub.Sub(key)

			d := RuleDescriptor{
				RuleID:           key,
				RuleName:         name,
				RuleSetID:        rsID,
				Description:      meta.Description(),
				Correctable:      meta.Correctable(),
				RequiresTypeInfo: meta.RequiresTypeInfo(),
				Group:            inst.GroupOf(name),
				URL:              BuildDocURL(rsID, name),
				Config:           ruleCfg,
				ruleSetConfig:    sub,
				factory:          factory,
			}
			if d.Group != "" {
				d.GroupMembers = inst.GroupMembers(d.Group)
			}

			d.Active = rsActive && ruleCfg.Bool("active", false)
			executable := fullAnalysis || !d.RequiresTypeInfo
			if d.Active && !executable {
				logger.Warn("rule requires type information and will not run",
					slog.String("rule_set", rsID),
					slog.String("rule", key))
				d.Active = false
			}

			sev, set, err := severityOf(ruleCfg, rsID+"."+key)
			if err != nil {
				return nil, err
			}
			switch {
			case set:
				d.Severity = sev
			case rsSeveritySet:
				d.Severity = rsSeverity
			default:
				d.Severity = core.DefaultSeverity
			}

			out = append(out, d)
		}
	}
	return out, nil
}

func severityOf(cfg *config.Config, subject string) (core.Severity, bool, error) {
	raw := cfg.String("severity", "")
	if raw == "" {
		return 0, false, nil
	}
	sev, err := core.ParseSeverity(raw)
	if err != nil {
		return 0, false, &ConfigError{Subject: subject, Err: err}
	}
	return sev, true, nil
}
