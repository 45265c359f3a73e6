// Package sentiment provides the tone classifiers behind the
// sentiment-flavored legitimacy scorer.
package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/vijay-prabhu/legitscore/internal/features"
)

// Label is a sentiment class
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
	// Unknown marks labels that name no sentiment, e.g. raw "LABEL_0"
	Unknown Label = "unknown"
)

// ParseLabel normalizes labels such as "Positive" or "NEGATIVE". Labels
// naming no sentiment map to Unknown.
func ParseLabel(s string) Label {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "negative"):
		return Negative
	case strings.Contains(s, "positive"):
		return Positive
	case strings.Contains(s, "neutral"):
		return Neutral
	default:
		return Unknown
	}
}

// Prediction is the top class and its probability
type Prediction struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"` // 0.0-1.0
}

// Confidence returns the score on a 0-100 scale
func (p Prediction) Confidence() float64 {
	return p.Score * 100
}

// Classifier labels the tone of a text
type Classifier interface {
	// Initialize prepares the classifier. It is called once before Classify.
	Initialize(ctx context.Context) error
	Classify(ctx context.Context, text string) (Prediction, error)
}

// Lexicon classifies tone by counting positive and negative words.
// It is deterministic and never fails.
type Lexicon struct{}

// NewLexicon creates a Lexicon classifier
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

// Initialize is a no-op
func (l *Lexicon) Initialize(ctx context.Context) error {
	return nil
}

// Classify returns positive when positive words outnumber negative ones,
// negative for the reverse and neutral on a tie.
func (l *Lexicon) Classify(ctx context.Context, text string) (Prediction, error) {
	pos := features.CountMatches(text, features.PositiveWords)
	neg := features.CountMatches(text, features.NegativeWords)

	diff := pos - neg
	switch {
	case diff > 0:
		return Prediction{Label: Positive, Score: lexiconScore(diff)}, nil
	case diff < 0:
		return Prediction{Label: Negative, Score: lexiconScore(-diff)}, nil
	default:
		return Prediction{Label: Neutral, Score: 0.6}, nil
	}
}

func lexiconScore(margin int) float64 {
	return math.Min(0.99, 0.6+0.1*float64(margin))
}
