// Package commands implements the leaplint subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/workspace"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	_ "github.com/leapstack-labs/leaplint/pkg/rules" // register built-in rule sets
	"github.com/leapstack-labs/leaplint/pkg/syntax"
	"github.com/leapstack-labs/leaplint/pkg/syntax/treesitter"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects what PersistentPreRunE stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	mode := output.ParseMode(cfg.Settings.Output)
	// A command's own --format wins even when it bypassed the configuration loader.
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		mode = output.ParseMode(f.Value.String())
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// Providers returns the installed rule set providers minus the excluded ones.
func (c *CommandContext) Providers() []lint.RuleSetProvider {
	return lint.Providers(c.Cfg.Settings.ExcludeRuleSets...)
}

// Parser returns the parser selected by the configuration.
func (c *CommandContext) Parser() syntax.Parser {
	if c.Cfg.Settings.Parser == config.ParserTreeSitter {
		return treesitter.New(false)
	}
	return syntax.TextParser{}
}

// Workspace builds the file access layer from the configuration.
func (c *CommandContext) Workspace() (*workspace.Workspace, error) {
	s := c.Cfg.Settings
	opts := []workspace.Option{workspace.WithExtensions(s.Extensions...)}
	if len(s.Excludes) > 0 {
		opts = append(opts, workspace.WithExcludes(s.Excludes...))
	}
	if s.Workers > 0 {
		opts = append(opts, workspace.WithLoaders(s.Workers))
	}
	return workspace.New(opts...)
}
