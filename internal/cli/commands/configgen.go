package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// NewConfigCommand creates the config command and its subcommands.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and generate configuration",
	}
	cmd.AddCommand(newConfigGenerateCommand())
	return cmd
}

func newConfigGenerateCommand() *cobra.Command {
	var outFile string
	var force bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the default configuration as YAML",
		Long: `Print a configuration file holding the engine settings and every rule of the
installed rule sets with its default activation and options.`,
		Example: `  # Print to stdout
  leaplint config generate

  # Write leaplint.yaml
  leaplint config generate --file leaplint.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			data, err := DefaultConfigYAML(cmdCtx.Providers())
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if !force {
				if _, err := os.Stat(outFile); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", outFile)
				}
			}
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			cmdCtx.Renderer.Success("Wrote " + outFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&outFile, "file", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// DefaultConfigYAML renders the engine defaults and the rule defaults of providers.
func DefaultConfigYAML(providers []lint.RuleSetProvider) ([]byte, error) {
	doc := lint.DefaultConfig(providers)
	doc[config.SettingsKey] = map[string]any{
		"parallel":                  false,
		"workers":                   0,
		"auto_correct":              false,
		"build_upon_default_config": false,
		"exclude_rule_sets":         []string{},
		"parser":                    config.DefaultParser,
		"log_level":                 config.DefaultLogLevel,
		"log_format":                config.DefaultLogFormat,
		"output":                    config.DefaultOutput,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}
