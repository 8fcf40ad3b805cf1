// Package similarity scores how close two normalized strings are, bounded to
// [0,1]. It backs the fuzzy stage of participant resolution.
package similarity

import "github.com/agnivade/levenshtein"

// DefaultNameMatchThreshold is the acceptance threshold above which two
// normalized names are considered the same person. Comparisons are strictly
// greater-than. Tuning it is an operational decision; see config.
const DefaultNameMatchThreshold = 0.85

// Score returns 1 - editDistance(a,b) / max(len(a), len(b), 1), where the
// edit distance counts single-rune insertions, deletions, and substitutions.
// Two empty strings score 1.0. Symmetric in its arguments.
func Score(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := max(len([]rune(a)), len([]rune(b)), 1)
	return 1.0 - float64(dist)/float64(longest)
}
