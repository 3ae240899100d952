package domain

import "strings"

// strongSections are résumé sections whose skill claims count at full
// confidence toward gap coverage; weakSections (and any unrecognized or
// empty section name) count toward partial coverage even at high
// confidence, since a skill mentioned only in passing carries less signal
// than one demonstrated in an experience or projects section.
var strongSections = map[string]bool{
	"experience":              true,
	"work experience":         true,
	"professional experience": true,
	"projects":                true,
	"skills":                  true,
	"education":               true,
}

// IsWeakSection reports whether a résumé section name should be treated as
// weak evidence for gap coverage purposes.
func IsWeakSection(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return true
	}
	if strongSections[n] {
		return false
	}
	return true
}
