package scoring

import (
	"context"
	"fmt"

	"github.com/vijay-prabhu/legitscore/internal/features"
	"github.com/vijay-prabhu/legitscore/internal/sentiment"
)

// SentimentName identifies the sentiment-flavored scorer
const SentimentName = "sentiment"

// SentimentScorer derives a base score from the posting's tone and
// adjusts it with fraud-pattern keyword hits.
type SentimentScorer struct {
	classifier sentiment.Classifier
	ready      bool
}

// NewSentimentScorer creates a scorer backed by classifier
func NewSentimentScorer(classifier sentiment.Classifier) *SentimentScorer {
	return &SentimentScorer{classifier: classifier}
}

func (s *SentimentScorer) Name() string { return SentimentName }

// Initialize prepares the tone classifier
func (s *SentimentScorer) Initialize(ctx context.Context) error {
	if s.classifier == nil {
		return ErrClassifierUnavailable
	}
	if err := s.classifier.Initialize(ctx); err != nil {
		return fmt.Errorf("sentiment classifier: %w", err)
	}
	s.ready = true
	return nil
}

// Score classifies tone, then applies the fraud-pattern penalty
func (s *SentimentScorer) Score(ctx context.Context, text string) (Result, error) {
	if !s.ready {
		return Result{}, ErrClassifierUnavailable
	}

	pred, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("classify: %w", err)
	}
	confidence := pred.Confidence()

	// Labels naming no sentiment keep the neutral base
	base := 50.0
	switch pred.Label {
	case sentiment.Negative:
		base = max(0, 40-confidence*0.3)
	case sentiment.Positive, sentiment.Neutral:
		base = min(100, 60+confidence*0.4)
	}

	patterns := detectFraudPatterns(text)
	score := Clamp(base - patterns.penalty)

	var risk, legitimacy []string
	if pred.Label == sentiment.Negative {
		risk = append(risk, "Negative tone detected in job posting", "Aggressive or concerning language patterns")
	} else {
		legitimacy = append(legitimacy, "Professional tone detected", "Appropriate language for job postings")
	}

	risk = append(risk, patterns.risk...)
	legitimacy = append(legitimacy, patterns.legitimacy...)

	if confidence > 80 {
		if score < 50 {
			risk = append(risk, "High confidence in detecting suspicious patterns")
		} else {
			legitimacy = append(legitimacy, "High confidence in content legitimacy")
		}
	}

	return NewResult(score, risk, legitimacy), nil
}

// Fallback is the simple keyword heuristic
func (s *SentimentScorer) Fallback(text string) Result {
	return SimpleFallback(text)
}

type fraudPatterns struct {
	penalty    float64
	risk       []string
	legitimacy []string
}

// detectFraudPatterns computes the keyword and length penalty. A negative
// penalty is a bonus.
func detectFraudPatterns(text string) fraudPatterns {
	var p fraudPatterns

	fraud := features.CountMatches(text, features.FraudKeywords)
	legit := features.CountMatches(text, features.LegitKeywords)

	if fraud > 0 {
		p.penalty += float64(fraud) * 8
		p.risk = append(p.risk, fmt.Sprintf("%d suspicious keyword(s) detected", fraud))
	}
	if legit > 0 {
		p.penalty -= float64(legit) * 5
		p.legitimacy = append(p.legitimacy, fmt.Sprintf("%d professional term(s) detected", legit))
	}

	switch length := features.Length(text); {
	case length < 200:
		p.penalty += 10
		p.risk = append(p.risk, "Job posting is unusually short")
	case length > 1000:
		p.penalty -= 5
		p.legitimacy = append(p.legitimacy, "Detailed job description provided")
	}

	return p
}
