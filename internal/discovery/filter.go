package discovery

import (
	"path/filepath"
	"strings"

	"gtp/internal/domain"
)

// Filter filters test executables and test cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters test executables by name pattern using wildcard matching
// Supports patterns like "*math_tests" or "*Parser*"
func (f *Filter) FilterByName(executables []string, pattern string) []string {
	if pattern == "" {
		return executables
	}

	var filtered []string
	for _, executable := range executables {
		// Match against just the filename
		if Matches(filepath.Base(executable), pattern) {
			filtered = append(filtered, executable)
		}
	}
	return filtered
}

// FilterTestCases filters test cases by their full name (Suite.Name)
func (f *Filter) FilterTestCases(cases []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return cases
	}

	var filtered []domain.TestCase
	for _, c := range cases {
		if Matches(c.FullName, pattern) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Matches reports whether name matches the pattern. Patterns with * or ? are matched
// as globs, falling back to requiring every non-empty *-separated part in name;
// patterns without wildcards match as substrings.
func Matches(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			if !strings.Contains(name, part) {
				return false
			}
			hasNonEmptyPart = true
		}
		return hasNonEmptyPart
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
