// Package names canonicalizes ingredient and item names for fuzzy comparison.
package names

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	parenRe    = regexp.MustCompile(`\([^)]*\)|（[^）]*）`)
	disallowed = regexp.MustCompile(`[^\w\s\p{Zs}\x{3000}-\x{303F}\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
	spaces     = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Normalize lowercases s, drops bracketed asides and punctuation outside the
// Japanese blocks, and collapses whitespace.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(width.Fold.String(s))
	s = parenRe.ReplaceAllString(s, "")
	s = disallowed.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
