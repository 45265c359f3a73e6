package scoring

import (
	"github.com/vijay-prabhu/legitscore/internal/features"
)

// SimpleFallback scores by counting the short keyword lists:
// 70 + 10 per legit term - 15 per suspicious term.
func SimpleFallback(text string) Result {
	suspicious := features.CountMatches(text, features.SimpleSuspicious)
	legit := features.CountMatches(text, features.SimpleLegit)

	score := 70 + float64(legit)*10 - float64(suspicious)*15

	var risk, legitimacy []string
	if suspicious > 0 {
		risk = []string{"Suspicious keywords detected"}
	}
	if legit > 0 {
		legitimacy = []string{"Professional language detected"}
	}
	return NewResult(score, risk, legitimacy)
}

// EnhancedFallback scores by counting the extended keyword lists and
// adjusting for length and shouting.
func EnhancedFallback(text string) Result {
	suspicious := features.CountMatches(text, features.ExtendedSuspicious)
	legit := features.CountMatches(text, features.ExtendedLegit)

	score := 60 + float64(legit)*8 - float64(suspicious)*12

	switch length := features.Length(text); {
	case length < 200:
		score -= 15
	case length > 1000:
		score += 10
	}

	if features.UppercaseRatio(text) > 0.3 {
		score -= 10
	}

	var risk, legitimacy []string
	if suspicious > 0 {
		risk = []string{"Suspicious keywords detected", "Pattern analysis suggests caution"}
	}
	if legit > 0 {
		legitimacy = []string{"Professional terminology detected", "Structured content analysis"}
	}
	return NewResult(score, risk, legitimacy)
}
