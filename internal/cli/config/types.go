// Package config loads the leaplint CLI configuration.
//
// A configuration file holds engine settings under the top-level "leaplint" key; every
// other top-level key is the sub-configuration of the rule set with that id:
//
//	leaplint:
//	  parallel: true
//	  auto_correct: false
//	style:
//	  MaxLineLength:
//	    active: true
//	    maxLineLength: 100
package config

import (
	pkgconfig "github.com/leapstack-labs/leaplint/pkg/config"
)

// SettingsKey is the top-level key holding engine settings.
const SettingsKey = "leaplint"

// Settings holds the engine and CLI options.
type Settings struct {
	Parallel               bool     `koanf:"parallel"`
	Workers                int      `koanf:"workers"`
	AutoCorrect            bool     `koanf:"auto_correct"`
	ExcludeRuleSets        []string `koanf:"exclude_rule_sets"`
	BuildUponDefaultConfig bool     `koanf:"build_upon_default_config"`
	Parser                 string   `koanf:"parser"`
	Extensions             []string `koanf:"extensions"`
	Excludes               []string `koanf:"excludes"`
	LogLevel               string   `koanf:"log_level"`
	LogFormat              string   `koanf:"log_format"`
	Output                 string   `koanf:"output"`
	MetricsAddr            string   `koanf:"metrics_addr"`
	Trace                  bool     `koanf:"trace"`
}

// Config is a loaded configuration.
type Config struct {
	Settings Settings
	// Rules is the rule set configuration tree, every top-level key except SettingsKey.
	Rules *pkgconfig.Config
	// FileUsed is the configuration file that was read, if any.
	FileUsed string
}

// Parser names.
const (
	ParserText       = "text"
	ParserTreeSitter = "tree-sitter"
)

// Default configuration values.
const (
	DefaultParser    = ParserText
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultOutput    = "auto" // Auto-detect: TTY=styled text, non-TTY=plain text
)

// DefaultConfigFiles are looked up in the working directory when no file is given.
var DefaultConfigFiles = []string{"leaplint.yaml", "leaplint.yml"}
