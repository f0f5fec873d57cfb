package classifier

import (
	"math"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
)

const minTemperature = 1e-6

// Probabilities maps class name to a probability; values sum to 1.
type Probabilities map[string]float64

// Softmax converts scores to probabilities. All-zero scores give a uniform
// distribution.
func Softmax(scores Scores, temperature float64) Probabilities {
	if len(scores) == 0 {
		return Probabilities{}
	}
	allZero := true
	maxScore := math.Inf(-1)
	for _, v := range scores {
		if v != 0 {
			allZero = false
		}
		if v > maxScore {
			maxScore = v
		}
	}
	probs := make(Probabilities, len(scores))
	if allZero {
		u := 1.0 / float64(len(scores))
		for k := range scores {
			probs[k] = u
		}
		return probs
	}
	t := math.Max(minTemperature, temperature)
	var total float64
	for k, v := range scores {
		e := math.Exp((v - maxScore) / t)
		probs[k] = e
		total += e
	}
	if total == 0 {
		total = 1
	}
	for k := range probs {
		probs[k] /= total
	}
	return probs
}

// Top returns the most probable class. Exact ties go to the class with the
// higher document-type priority, then to the lexically smaller name.
func (p Probabilities) Top() (string, float64) {
	var (
		best  string
		bestP = -1.0
	)
	for class, v := range p {
		switch {
		case v > bestP:
			best, bestP = class, v
		case v == bestP && before(class, best):
			best = class
		}
	}
	if bestP < 0 {
		return "", 0
	}
	return best, bestP
}

func before(a, b string) bool {
	pa, pb := constants.Priority(a), constants.Priority(b)
	if pa != pb {
		return pa < pb
	}
	return a < b
}
