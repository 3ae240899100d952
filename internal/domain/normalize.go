package domain

import "strings"

// canonicalize lowercases, trims, and collapses internal whitespace runs to
// a single space, the canonical form stored as Skill.CanonicalName.
func canonicalize(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, " ")
}
