package casefolio

import (
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns     = regexp.MustCompile(`-+`)

	// SlugPattern matches canonical slugs produced by Slugify.
	SlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Slugify converts arbitrary user input into the canonical identifier used
// as both storage key and URL path segment. It is total and idempotent:
// Slugify(Slugify(s)) == Slugify(s) for every s. The result may be empty,
// which callers must reject as an invalid key.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return s
}
