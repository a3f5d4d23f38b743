package match

import (
	"github.com/hbollon/go-edlib"
)

// suggestionThreshold is the minimum Jaro-Winkler score for a usable
// suggestion; anything below it is noise.
const suggestionThreshold = 0.70

// Result is the best candidate for an input name.
type Result struct {
	Name  string  // the original candidate, un-normalized
	Score float64 // Jaro-Winkler similarity (0.0-1.0)
}

// Exact reports whether the input and candidate are the same name after
// normalization.
func Exact(input, candidate string) bool {
	return Normalize(input) == Normalize(candidate)
}

// Best finds the closest candidate to input. Uses Jaro-Winkler similarity,
// which favors prefix matches. ok is false when no candidate clears the
// suggestion threshold.
func Best(input string, candidates []string) (Result, bool) {
	normalized := Normalize(input)

	best := Result{}
	for _, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalized, Normalize(candidate)))
		if score > best.Score {
			best = Result{Name: candidate, Score: score}
		}
	}

	return best, best.Score >= suggestionThreshold
}
