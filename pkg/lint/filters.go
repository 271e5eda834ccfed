package lint

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/leapstack-labs/leaplint/pkg/config"
)

// pathFilter restricts a rule set or rule to a subset of units.
// Patterns use doublestar syntax; a pattern without a slash also matches the base name.
type pathFilter struct {
	includes []string
	excludes []string
}

func newPathFilter(cfg *config.Config, subject string) (pathFilter, error) {
	f := pathFilter{
		includes: cfg.Strings("includes", nil),
		excludes: cfg.Strings("excludes", nil),
	}
	for _, p := range append(append([]string(nil), f.includes...), f.excludes...) {
		if !doublestar.ValidatePattern(p) {
			return pathFilter{}, &ConfigError{Subject: subject, Err: fmt.Errorf("%w: %q", ErrInvalidPattern, p)}
		}
	}
	return f, nil
}

func (f pathFilter) empty() bool {
	return len(f.includes) == 0 && len(f.excludes) == 0
}

// allows reports whether a unit path passes the filter.
func (f pathFilter) allows(unitPath string) bool {
	if f.empty() {
		return true
	}
	p := filepath.ToSlash(unitPath)
	if len(f.includes) > 0 && !matchAny(f.includes, p) {
		return false
	}
	return !matchAny(f.excludes, p)
}

func matchAny(patterns []string, p string) bool {
	base := path.Base(p)
	for _, pattern := range patterns {
		target := p
		if !strings.Contains(pattern, "/") {
			target = base
		}
		if ok, _ := doublestar.Match(pattern, target); ok {
			return true
		}
	}
	return false
}

// relativeTo returns unitPath relative to base when unitPath is an absolute path
// inside base.
func relativeTo(base, unitPath string) string {
	if base == "" || !filepath.IsAbs(unitPath) {
		return unitPath
	}
	rel, err := filepath.Rel(base, unitPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return unitPath
	}
	return rel
}
