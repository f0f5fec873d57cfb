// Package classifier turns rule matches into a probability per document class.
package classifier

import (
	"strings"

	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
	"github.com/IbrahimShadi/pdf-analyzer/internal/textnorm"
)

const (
	keywordWeight   = 1.0
	phraseWeight    = 1.5
	fuzzyBoost      = 0.5
	fuzzyThreshold  = 0.9
	fuzzyWindowRune = 10000
)

// Scores maps class name to a non-negative raw score.
type Scores map[string]float64

// Scorer computes raw class scores from rule matches.
type Scorer struct {
	fuzzy FuzzyMatcher
}

// NewScorer returns a scorer; a nil matcher disables the fuzzy boost.
func NewScorer(fuzzy FuzzyMatcher) *Scorer {
	if fuzzy == nil {
		fuzzy = NoFuzzy{}
	}
	return &Scorer{fuzzy: fuzzy}
}

// Score normalizes text and scores it against every class in set. Keywords and
// phrases are counted on the normalized text, regexes on the original.
func (s *Scorer) Score(text string, set *rules.Set) Scores {
	return s.ScoreNormalized(text, textnorm.Normalize(text), set)
}

// ScoreNormalized is Score for callers that already hold the normalized text.
func (s *Scorer) ScoreNormalized(original, normalized string, set *rules.Set) Scores {
	scores := make(Scores, set.Len())
	window := textnorm.Prefix(normalized, fuzzyWindowRune)
	for _, class := range set.Classes() {
		cr, _ := set.Get(class)
		scores[class] = s.scoreClass(original, normalized, window, cr)
	}
	return scores
}

func (s *Scorer) scoreClass(original, normalized, window string, cr rules.ClassRules) float64 {
	var score float64
	for _, kw := range cr.Keywords {
		needle := strings.ToLower(kw)
		if needle == "" {
			continue
		}
		count := strings.Count(normalized, needle)
		score += keywordWeight * float64(count)
		if count == 0 && s.fuzzy.PartialRatio(needle, window) > fuzzyThreshold {
			score += fuzzyBoost
		}
	}
	for _, phr := range cr.Phrases {
		needle := strings.ToLower(phr)
		if needle == "" {
			continue
		}
		score += phraseWeight * float64(strings.Count(normalized, needle))
	}
	for _, rx := range cr.Regexes {
		re := rx.Matcher()
		if re == nil {
			continue
		}
		score += rx.Weight * float64(len(re.FindAllStringIndex(original, -1)))
	}
	return score
}
