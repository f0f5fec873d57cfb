package classifier

import (
	"github.com/agext/levenshtein"
)

// FuzzyMatcher scores how well needle appears somewhere inside haystack, in
// [0,1]. Implementations must be safe for concurrent use.
type FuzzyMatcher interface {
	PartialRatio(needle, haystack string) float64
}

// NoFuzzy disables the fuzzy keyword boost.
type NoFuzzy struct{}

func (NoFuzzy) PartialRatio(string, string) float64 { return 0 }

// LevenshteinMatcher slides a needle-sized window over the haystack and keeps
// the best normalized Levenshtein similarity. Window scores under MinScore are
// reported as 0, which lets the distance computation stop early.
type LevenshteinMatcher struct {
	MinScore float64
}

func (m LevenshteinMatcher) PartialRatio(needle, haystack string) float64 {
	if needle == "" || haystack == "" {
		return 0
	}
	p := levenshtein.NewParams().MinScore(m.MinScore)
	n := []rune(needle)
	h := []rune(haystack)
	if len(h) <= len(n) {
		return levenshtein.Similarity(needle, haystack, p)
	}
	best := 0.0
	for i := 0; i+len(n) <= len(h); i++ {
		sim := levenshtein.Similarity(needle, string(h[i:i+len(n)]), p)
		if sim > best {
			best = sim
			if best == 1 {
				break
			}
		}
	}
	return best
}

// DefaultFuzzy is the matcher used when the fuzzy boost is enabled.
func DefaultFuzzy() FuzzyMatcher {
	return LevenshteinMatcher{MinScore: fuzzyThreshold}
}
