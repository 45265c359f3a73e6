// Package scoring assigns job postings a legitimacy score in [0,100].
package scoring

import (
	"context"
	"errors"
)

const (
	// MinScore and MaxScore bound every legitimacy score
	MinScore = 0.0
	MaxScore = 100.0
	// Threshold is the score a posting must exceed to be legitimate
	Threshold = 50.0
)

var (
	// ErrClassifierUnavailable is returned when a scorer's primary model
	// has not been initialized
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)

// Result is the outcome of scoring one posting. Confidence mirrors
// OverallScore and IsLegitimate is OverallScore > Threshold.
type Result struct {
	IsLegitimate      bool     `json:"is_legitimate"`
	Confidence        float64  `json:"confidence"`
	RiskFactors       []string `json:"risk_factors"`
	LegitimacyFactors []string `json:"legitimacy_factors"`
	OverallScore      float64  `json:"overall_score"`
}

// NewResult clamps score and derives the verdict from it
func NewResult(score float64, riskFactors, legitimacyFactors []string) Result {
	score = Clamp(score)
	if riskFactors == nil {
		riskFactors = []string{}
	}
	if legitimacyFactors == nil {
		legitimacyFactors = []string{}
	}
	return Result{
		IsLegitimate:      score > Threshold,
		Confidence:        score,
		RiskFactors:       riskFactors,
		LegitimacyFactors: legitimacyFactors,
		OverallScore:      score,
	}
}

// Probability returns the score on a 0-1 scale
func (r Result) Probability() float64 {
	return r.OverallScore / 100
}

// Clamp bounds score to [MinScore, MaxScore]
func Clamp(score float64) float64 {
	return max(MinScore, min(MaxScore, score))
}

// Scorer is one legitimacy scoring variant
type Scorer interface {
	// Name identifies the variant in logs and reports
	Name() string
	// Initialize builds the primary model. Callers serialize it.
	Initialize(ctx context.Context) error
	// Score runs the primary model
	Score(ctx context.Context, text string) (Result, error)
	// Fallback is the always-available heuristic for this variant
	Fallback(text string) Result
}
