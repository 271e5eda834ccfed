package lint

import "github.com/leapstack-labs/leaplint/pkg/config"

// GetOption extracts a typed option with a default value.
// Values of a different type fall back to the default.
func GetOption[T any](cfg *config.Config, key string, defaultVal T) T {
	v, ok := cfg.Get(key)
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetIntOption extracts an int option, handling the numeric types decoders produce.
func GetIntOption(cfg *config.Config, key string, defaultVal int) int {
	v, ok := cfg.Get(key)
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return cfg.Int(key, defaultVal)
	}
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(cfg *config.Config, key string, defaultVal []string) []string {
	return cfg.Strings(key, defaultVal)
}
