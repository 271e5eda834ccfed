// Package config provides the hierarchical configuration model used to activate and tune
// rules.
//
// A Config is an immutable view over a koanf tree. Every rule set owns a sub-configuration
// named after its id, and every rule owns a sub-configuration of its rule set named after
// its config key:
//
//	style:              # rule set sub-configuration
//	  active: true
//	  severity: warning
//	  MaxLineLength:    # rule sub-configuration
//	    active: true
//	    maxLineLength: 100
//
// Keys must not contain the path delimiter ".".
package config

import (
	"sort"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Delim separates the segments of a configuration path.
const Delim = "."

// Config is a node of the configuration hierarchy.
// A nil *Config behaves like an empty configuration.
type Config struct {
	k      *koanf.Koanf
	parent *Config
	key    string
}

// Empty returns a configuration without any keys.
func Empty() *Config {
	return &Config{k: koanf.New(Delim)}
}

// New builds a root configuration from a nested map.
// Dotted keys in values are expanded into nested maps.
func New(values map[string]any) *Config {
	k := koanf.New(Delim)
	// confmap.Read never fails.
	_ = k.Load(confmap.Provider(values, Delim), nil)
	return &Config{k: k}
}

// FromKoanf wraps an already loaded koanf instance as a root configuration.
func FromKoanf(k *koanf.Koanf) *Config {
	if k == nil {
		return Empty()
	}
	return &Config{k: k}
}

// Key returns the name of this node within its parent, or "" for the root.
func (c *Config) Key() string {
	if c == nil {
		return ""
	}
	return c.key
}

// Parent returns the enclosing configuration, or nil for the root.
func (c *Config) Parent() *Config {
	if c == nil {
		return nil
	}
	return c.parent
}

// Path returns the dotted path from the root to this node.
func (c *Config) Path() string {
	if c == nil || c.parent == nil {
		return ""
	}
	if p := c.parent.Path(); p != "" {
		return p + Delim + c.key
	}
	return c.key
}

// Sub returns the named child configuration.
// A missing key yields an empty child that still knows its parent and key.
func (c *Config) Sub(key string) *Config {
	child := &Config{parent: c, key: key}
	if c == nil || c.k == nil {
		child.k = koanf.New(Delim)
		return child
	}
	child.k = c.k.Cut(key)
	return child
}

// Keys returns the top-level keys of this node in sorted order.
func (c *Config) Keys() []string {
	if c == nil || c.k == nil {
		return nil
	}
	raw := c.k.Raw()
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is set on this node.
func (c *Config) Has(key string) bool {
	if c == nil || c.k == nil {
		return false
	}
	return c.k.Exists(key)
}

// Get returns the raw value stored at key.
func (c *Config) Get(key string) (any, bool) {
	if !c.Has(key) {
		return nil, false
	}
	return c.k.Get(key), true
}

// Bool returns the boolean at key, or defaultVal when the key is unset.
func (c *Config) Bool(key string, defaultVal bool) bool {
	if !c.Has(key) {
		return defaultVal
	}
	return c.k.Bool(key)
}

// Int returns the integer at key, or defaultVal when the key is unset.
func (c *Config) Int(key string, defaultVal int) int {
	if !c.Has(key) {
		return defaultVal
	}
	return c.k.Int(key)
}

// String returns the string at key, or defaultVal when the key is unset.
func (c *Config) String(key string, defaultVal string) string {
	if !c.Has(key) {
		return defaultVal
	}
	return c.k.String(key)
}

// Strings returns the string list at key, or defaultVal when the key is unset.
// A single string value is split on commas.
func (c *Config) Strings(key string, defaultVal []string) []string {
	if !c.Has(key) {
		return defaultVal
	}
	if s, ok := c.k.Get(key).(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return c.k.Strings(key)
}

// Raw returns a copy of the nested map backing this node.
func (c *Config) Raw() map[string]any {
	if c == nil || c.k == nil {
		return map[string]any{}
	}
	return c.k.Raw()
}
