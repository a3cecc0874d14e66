package sentiment

import (
	"log/slog"
	"math"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

const (
	lexiconScale      = 3.0
	polarityThreshold = 0.1
)

type Result struct {
	Label    Label   `json:"label"`
	Polarity float64 `json:"polarity"`
}

type Service struct {
	scorer PolarityScorer
}

func New(_ *do.Injector) (*Service, error) {
	return NewClassifier(LexicalScorer{}), nil
}

// NewClassifier returns a classifier that falls back to scorer when the
// lexicons have no hits. A nil scorer always yields 0.
func NewClassifier(scorer PolarityScorer) *Service {
	return &Service{
		scorer: scorer,
	}
}

func (s *Service) Classify(text string) Result {
	lower := strings.ToLower(text)

	score := countHits(lower, positiveWords) - countHits(lower, negativeWords)
	if score != 0 {
		label := Positive
		if score < 0 {
			label = Negative
		}

		return Result{
			Label:    label,
			Polarity: clamp(float64(score)/lexiconScale, -1, 1),
		}
	}

	polarity := s.fallbackPolarity(text)

	switch {
	case polarity > polarityThreshold:
		return Result{Label: Positive, Polarity: polarity}
	case polarity < -polarityThreshold:
		return Result{Label: Negative, Polarity: polarity}
	default:
		return Result{Label: Neutral, Polarity: polarity}
	}
}

// ContainsLoneliness reports whether text mentions any loneliness word.
func (s *Service) ContainsLoneliness(text string) bool {
	return countHits(strings.ToLower(text), lonelinessWords) > 0
}

func (s *Service) fallbackPolarity(text string) (polarity float64) {
	if s.scorer == nil || strings.TrimSpace(text) == "" {
		return 0
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Polarity scorer panicked", "panic", r)
			polarity = 0
		}
	}()

	value, err := s.scorer.Polarity(text)
	if err != nil {
		slog.Warn("Polarity scorer failed", "error", err)
		return 0
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}

	return clamp(value, -1, 1)
}

func countHits(text string, words []string) int {
	return len(pie.Filter(words, func(word string) bool {
		return strings.Contains(text, word)
	}))
}
