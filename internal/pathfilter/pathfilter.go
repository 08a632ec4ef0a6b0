// Package pathfilter decides which directories are pruned from a theme walk.
package pathfilter

import "path/filepath"

// DefaultExclude is the dependency folder never shipped with a theme.
var DefaultExclude = []string{"node_modules"}

// Excluded reports whether a directory named base matches one of the patterns.
// Patterns are exact names or filepath.Match globs against the base name.
func Excluded(base string, patterns []string) bool {
	for _, pattern := range patterns {
		if base == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
