package classifier

import (
	"github.com/IbrahimShadi/pdf-analyzer/internal/rules"
)

// Classification is the outcome of scoring one text.
type Classification struct {
	Scores        Scores
	Probabilities Probabilities
	Temperature   float64
	TopClass      string
	Confidence    float64
}

// Classifier combines a Scorer with the softmax step.
type Classifier struct {
	scorer *Scorer
}

func New(fuzzy FuzzyMatcher) *Classifier {
	return &Classifier{scorer: NewScorer(fuzzy)}
}

// Classify scores text and converts the scores to probabilities. The
// effective temperature is the mean of the temperatures the rules configure;
// temperature is used when no class configures one.
func (c *Classifier) Classify(text string, set *rules.Set, temperature float64) Classification {
	scores := c.scorer.Score(text, set)
	t := set.MeanTemperature(temperature)
	probs := Softmax(scores, t)
	top, conf := probs.Top()
	return Classification{
		Scores:        scores,
		Probabilities: probs,
		Temperature:   t,
		TopClass:      top,
		Confidence:    conf,
	}
}

var defaultClassifier = New(DefaultFuzzy())

// Classify runs the default classifier, fuzzy boost enabled.
func Classify(text string, set *rules.Set, temperature float64) Classification {
	return defaultClassifier.Classify(text, set, temperature)
}
