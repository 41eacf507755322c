package resolve

import (
	"path"
	"strings"
)

// MatchTablePattern reports whether table matches a case-insensitive glob.
// A pattern without glob metacharacters must equal the table name.
func MatchTablePattern(pattern, table string) bool {
	p := strings.ToUpper(pattern)
	t := strings.ToUpper(table)
	if !strings.ContainsAny(p, "*?[") {
		return p == t
	}
	ok, err := path.Match(p, t)
	return err == nil && ok
}

// matchesAny reports whether table matches any of the patterns.
func matchesAny(patterns []string, table string) bool {
	for _, p := range patterns {
		if MatchTablePattern(p, table) {
			return true
		}
	}
	return false
}

// overlaps is the bidirectional case-insensitive substring test used for
// alias and term matching. Empty strings never overlap.
func overlaps(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
