// Package cli provides the command-line interface for leaplint.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/commands"
	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "leaplint",
		Short: "leaplint - a configurable rule engine for source files",
		Long: `leaplint runs rule sets over source files and reports, and optionally fixes,
the findings.

Rules are grouped into rule sets and configured in leaplint.yaml: every top-level
key names a rule set, every nested key a rule. Engine settings live under the
"leaplint" key and can be overridden by LEAPLINT_* environment variables and flags.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags(), lint.Providers())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Settings.LogFormat, cfg.Settings.LogLevel)
			slog.SetDefault(logger)
			if cfg.FileUsed != "" {
				logger.Debug("using config file", slog.String("path", cfg.FileUsed))
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leaplint.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand(Version))
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return execute(NewRootCmd(), os.Stderr)
}

func execute(rootCmd *cobra.Command, errOut io.Writer) error {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for leaplint.

To load completions:

Bash:
  $ source <(leaplint completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ leaplint completion zsh > "${fpath[1]}/_leaplint"

Fish:
  $ leaplint completion fish | source

PowerShell:
  PS> leaplint completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
