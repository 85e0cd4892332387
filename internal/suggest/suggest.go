// Package suggest offers "did you mean" corrections for unresolved names —
// a --top/--bench typo, an unknown IP in a dependency table — using
// Jaro-Winkler similarity via github.com/hbollon/go-edlib.
package suggest

import "github.com/hbollon/go-edlib"

// DefaultThreshold is the similarity score (0.0-1.0) above which a
// candidate is considered worth suggesting.
const DefaultThreshold = 0.80

// Nearest returns the candidate most similar to name by Jaro-Winkler
// similarity, provided its score clears threshold. ok is false when
// candidates is empty or nothing clears the bar.
func Nearest(name string, candidates []string, threshold float64) (best string, ok bool) {
	var bestScore float64
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(name, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = c
		}
	}
	if bestScore < threshold {
		return "", false
	}
	return best, true
}

// DidYouMean formats a one-line hint for an unresolved name, or "" if no
// candidate clears DefaultThreshold.
func DidYouMean(name string, candidates []string) string {
	best, ok := Nearest(name, candidates, DefaultThreshold)
	if !ok {
		return ""
	}
	return "did you mean \"" + best + "\"?"
}
