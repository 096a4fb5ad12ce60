package shared

import (
	"regexp"
	"strings"
)

// MatchPattern applies metastore name-pattern semantics: "*" matches any run
// of characters, "|" separates alternatives and comparison ignores case.
// An empty pattern matches everything.
func MatchPattern(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	return compilePattern(pattern).MatchString(name)
}

// FilterNames keeps the names matching pattern, preserving order
func FilterNames(pattern string, names []string) []string {
	re := compilePattern(pattern)
	out := make([]string, 0, len(names))
	for _, name := range names {
		if pattern == "" || re.MatchString(name) {
			out = append(out, name)
		}
	}
	return out
}

func compilePattern(pattern string) *regexp.Regexp {
	alternatives := strings.Split(pattern, "|")
	for i, alt := range alternatives {
		parts := strings.Split(strings.TrimSpace(alt), "*")
		for j, part := range parts {
			parts[j] = regexp.QuoteMeta(part)
		}
		alternatives[i] = strings.Join(parts, ".*")
	}
	return regexp.MustCompile("(?i)^(?:" + strings.Join(alternatives, "|") + ")$")
}
