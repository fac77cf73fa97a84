package validator

import (
	"github.com/agnivade/levenshtein"
)

// nearest returns the candidate closest to name by edit distance, or ""
// when nothing is close enough to be a plausible typo.
func nearest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance(name) + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func maxSuggestDistance(name string) int {
	if len(name) <= 4 {
		return 1
	}
	return 2
}
