package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	RuleSet    string // Filter by rule set id
	ActiveOnly bool   // Only rules that would run
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available rules",
		Long: `List every rule of the installed rule sets with its effective severity and
activation, resolved against the rule defaults and the configuration file.

Output adapts to environment:
  - Terminal: Styled table
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  leaplint rules

  # Show details for a specific rule
  leaplint rules MaxLineLength

  # List the rules of one rule set
  leaplint rules --rule-set formatting

  # Only rules that would run
  leaplint rules --active

  # Output as JSON
  leaplint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0])
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RuleSet, "rule-set", "s", "", "Filter by rule set id")
	cmd.Flags().BoolVar(&opts.ActiveOnly, "active", false, "Only list active rules")
	cmd.Flags().StringP("format", "f", "", "Output format: auto, text, json")

	return cmd
}

// describedRules resolves every installed rule against the defaults overlaid with
// the loaded configuration.
func describedRules(cmdCtx *CommandContext) ([]lint.RuleDescriptor, error) {
	providers := cmdCtx.Providers()
	merged := lint.MergeConfig(lint.DefaultConfig(providers), cmdCtx.Cfg.Rules.Raw())
	descs, err := lint.Resolve(providers, config.New(merged), true, cmdCtx.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rules: %w", err)
	}
	sort.SliceStable(descs, func(i, j int) bool {
		if descs[i].RuleSetID != descs[j].RuleSetID {
			return descs[i].RuleSetID < descs[j].RuleSetID
		}
		return descs[i].RuleID < descs[j].RuleID
	})
	return descs, nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	descs, err := describedRules(cmdCtx)
	if err != nil {
		return err
	}

	var filtered []lint.RuleDescriptor
	for _, d := range descs {
		if opts.RuleSet != "" && d.RuleSetID != opts.RuleSet {
			continue
		}
		if opts.ActiveOnly && !d.Active {
			continue
		}
		filtered = append(filtered, d)
	}

	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]core.RuleInfo, 0, len(filtered))
		for _, d := range filtered {
			infos = append(infos, d.Info())
		}
		return r.JSON(infos)
	}

	if len(filtered) == 0 {
		r.Println("No rules found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Rule Set", "Severity", "Active", "Correctable", "Type Info", "Group"})
	for _, d := range filtered {
		t.AppendRow(table.Row{
			d.RuleID,
			d.RuleSetID,
			d.Severity.String(),
			yesNo(d.Active),
			yesNo(d.Correctable),
			yesNo(d.RequiresTypeInfo),
			d.Group,
		})
	}
	t.Render()
	return nil
}

func showRule(cmd *cobra.Command, ruleID string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	descs, err := describedRules(cmdCtx)
	if err != nil {
		return err
	}

	var found []lint.RuleDescriptor
	for _, d := range descs {
		if d.RuleID == ruleID || d.RuleSetID+"/"+d.RuleID == ruleID {
			found = append(found, d)
		}
	}
	if len(found) == 0 {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]core.RuleInfo, 0, len(found))
		for _, d := range found {
			infos = append(infos, d.Info())
		}
		return r.JSON(infos)
	}

	styles := r.Styles()
	for i, d := range found {
		if i > 0 {
			r.Println("")
		}
		r.Println(styles.Header1.Render(d.RuleSetID + "/" + d.RuleID))
		if d.Description != "" {
			r.Println(d.Description)
		}
		r.Println("")
		r.Printf("  %s %s\n", styles.Muted.Render("Severity:   "), styles.Severity(d.Severity).Render(d.Severity.String()))
		r.Printf("  %s %s\n", styles.Muted.Render("Active:     "), yesNo(d.Active))
		r.Printf("  %s %s\n", styles.Muted.Render("Correctable:"), yesNo(d.Correctable))
		if d.RequiresTypeInfo {
			r.Printf("  %s %s\n", styles.Muted.Render("Type info:  "), "required")
		}
		if d.Group != "" {
			r.Printf("  %s %s\n", styles.Muted.Render("Group:      "), d.Group)
		}
		if d.URL != "" {
			r.Printf("  %s %s\n", styles.Muted.Render("Docs:       "), d.URL)
		}
		if keys := d.Config.Keys(); len(keys) > 0 {
			r.Println(styles.Header2.Render("  Options"))
			for _, k := range keys {
				v, _ := d.Config.Get(k)
				r.Printf("    %s: %v\n", k, v)
			}
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
