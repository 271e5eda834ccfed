package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	pkgconfig "github.com/leapstack-labs/leaplint/pkg/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// configKey is used to store the loaded configuration in context.
type configKey struct{}

// EnvPrefix prefixes environment variables overriding engine settings,
// e.g. LEAPLINT_AUTO_CORRECT=true.
const EnvPrefix = "LEAPLINT_"

// flagKeys maps CLI flags onto settings keys. Flags not listed are not configuration.
var flagKeys = map[string]string{
	"parallel":                  "parallel",
	"workers":                   "workers",
	"auto-correct":              "auto_correct",
	"exclude-rule-set":          "exclude_rule_sets",
	"build-upon-default-config": "build_upon_default_config",
	"parser":                    "parser",
	"extension":                 "extensions",
	"exclude":                   "excludes",
	"log-level":                 "log_level",
	"log-format":                "log_format",
	"output":                    "output",
	"format":                    "output",
	"metrics-addr":              "metrics_addr",
	"trace":                     "trace",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > leaplint.yaml > leaplint.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from defaults, the config file, environment variables and
// flags. Precedence (highest to lowest): flags > env vars > config file > built-in rule
// defaults > defaults. Rule defaults apply with build_upon_default_config or when no
// configuration file is found.
func Load(cfgFile string, flags *pflag.FlagSet, providers []lint.RuleSetProvider) (*Config, error) {
	k := koanf.New(pkgconfig.Delim)

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		SettingsKey: map[string]any{
			"parser":     DefaultParser,
			"log_level":  DefaultLogLevel,
			"log_format": DefaultLogFormat,
			"output":     DefaultOutput,
		},
	}, pkgconfig.Delim), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables: LEAPLINT_AUTO_CORRECT -> leaplint.auto_correct
	if err := k.Load(env.Provider(EnvPrefix, pkgconfig.Delim, func(s string) string {
		return SettingsKey + pkgconfig.Delim + strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, pkgconfig.Delim, k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return SettingsKey + pkgconfig.Delim + key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var settings Settings
	if err := k.Unmarshal(SettingsKey, &settings); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	settings.ExcludeRuleSets = splitList(settings.ExcludeRuleSets)
	settings.Extensions = splitList(settings.Extensions)
	settings.Excludes = splitList(settings.Excludes)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	rules := k.Copy()
	rules.Delete(SettingsKey)
	// Without a configuration file the rule defaults are the whole rule configuration.
	if settings.BuildUponDefaultConfig || used == "" {
		base := koanf.New(pkgconfig.Delim)
		_ = base.Load(confmap.Provider(lint.DefaultConfig(providers), pkgconfig.Delim), nil)
		if err := base.Merge(rules); err != nil {
			return nil, fmt.Errorf("failed to merge default rule config: %w", err)
		}
		rules = base
	}

	if used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			used = abs
		}
	}
	return &Config{
		Settings: settings,
		Rules:    pkgconfig.FromKoanf(rules),
		FileUsed: used,
	}, nil
}

// splitList expands comma-separated entries, as produced by environment variables.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the configuration loaded for the running command.
// It returns defaults when no configuration was loaded.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		Settings: Settings{
			Parser:    DefaultParser,
			LogLevel:  DefaultLogLevel,
			LogFormat: DefaultLogFormat,
			Output:    DefaultOutput,
		},
		Rules: pkgconfig.Empty(),
	}
}
