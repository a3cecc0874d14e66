package sentiment

import (
	"strings"
	"unicode"
)

// PolarityScorer is a general purpose text polarity estimator.
// Implementations return a value in [-1, 1].
type PolarityScorer interface {
	Polarity(text string) (float64, error)
}

const (
	negationFactor  = -0.5
	intensifyFactor = 1.3
	negationWindow  = 2
)

var valence = map[string]float64{
	"good":         0.7,
	"great":        0.8,
	"nice":         0.6,
	"love":         0.5,
	"happy":        0.8,
	"glad":         0.5,
	"amazing":      0.6,
	"wonderful":    1.0,
	"awesome":      1.0,
	"fine":         0.4,
	"bad":          -0.7,
	"sad":          -0.5,
	"awful":        -1.0,
	"terrible":     -1.0,
	"horrible":     -1.0,
	"hate":         -0.8,
	"angry":        -0.5,
	"lonely":       -0.5,
	"worst":        -1.0,
	"tired":        -0.4,
	"bueno":        0.7,
	"buena":        0.7,
	"mejor":        0.5,
	"lindo":        0.5,
	"linda":        0.5,
	"hermoso":      0.8,
	"hermosa":      0.8,
	"encanta":      0.6,
	"amo":          0.5,
	"divertido":    0.5,
	"divertida":    0.5,
	"peor":         -1.0,
	"malo":         -0.7,
	"mala":         -0.7,
	"odio":         -0.8,
	"aburrido":     -0.5,
	"aburrida":     -0.5,
	"harto":        -0.6,
	"harta":        -0.6,
	"difícil":      -0.3,
	"dificil":      -0.3,
	"insoportable": -0.9,
}

var negations = map[string]bool{
	"no": true, "nunca": true, "jamás": true, "jamas": true, "ni": true,
	"not": true, "never": true, "don't": true, "isn't": true,
}

var intensifiers = map[string]bool{
	"muy": true, "tan": true, "super": true, "re": true, "demasiado": true,
	"very": true, "really": true, "so": true, "extremely": true,
}

// LexicalScorer averages word valences, flipping negated words and boosting
// intensified ones.
type LexicalScorer struct{}

func (LexicalScorer) Polarity(text string) (float64, error) {
	tokens := tokenize(text)

	var (
		sum  float64
		hits int
	)

	for i, token := range tokens {
		v, ok := valence[token]
		if !ok {
			continue
		}

		if i > 0 && intensifiers[tokens[i-1]] {
			v *= intensifyFactor
		}
		if negatedAt(tokens, i) {
			v *= negationFactor
		}

		sum += v
		hits++
	}

	if hits == 0 {
		return 0, nil
	}

	return clamp(sum/float64(hits), -1, 1), nil
}

// negatedAt reports a negation within the two preceding tokens.
func negatedAt(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if negations[tokens[j]] {
			return true
		}
	}

	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
