package view

import (
	"sort"
	"strconv"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a candidate may be from the input and
// still be offered as a correction.
const maxSuggestDistance = 2

// Suggest returns the candidate closest to name by edit distance, or "" when
// none is within maxSuggestDistance. Ties resolve alphabetically.
func Suggest(name string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best, bestDist := "", maxSuggestDistance+1
	for _, candidate := range sorted {
		if candidate == name {
			continue
		}
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// didYouMean formats a suggestion suffix for error messages.
func didYouMean(name string, candidates []string) string {
	if s := Suggest(name, candidates); s != "" {
		return " (did you mean " + strconv.Quote(s) + "?)"
	}
	return ""
}
