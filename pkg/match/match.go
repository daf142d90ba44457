// Package match picks the inventory item a recipe ingredient most plausibly
// refers to.
package match

import (
	"strings"

	"github.com/korjavin/fridgechef/pkg/names"
)

// Index returns the position in candidates that target refers to, or -1.
//
// Both sides are normalized first. Tiers are tried in order and within a
// tier the first candidate in list order wins:
//  1. either name contains the other
//  2. the candidate contains any whitespace-separated token of the target
//  3. either name is a prefix of the other
//
// Candidates that normalize to the empty string never match.
func Index(target string, candidates []string) int {
	t := names.Normalize(target)
	if t == "" {
		return -1
	}

	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = names.Normalize(c)
	}

	for i, n := range normalized {
		if n == "" {
			continue
		}
		if strings.Contains(n, t) || strings.Contains(t, n) {
			return i
		}
	}

	tokens := strings.Fields(t)
	for i, n := range normalized {
		if n == "" {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(n, tok) {
				return i
			}
		}
	}

	// Subsumed by containment today; kept so the tier order stays explicit
	// if containment is ever narrowed.
	for i, n := range normalized {
		if n == "" {
			continue
		}
		if strings.HasPrefix(n, t) || strings.HasPrefix(t, n) {
			return i
		}
	}

	return -1
}
