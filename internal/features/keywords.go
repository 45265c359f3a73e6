package features

import "strings"

// Keyword tables. Membership is part of the scoring contract, so these are
// matched verbatim as case-insensitive substrings.
var (
	// FraudKeywords feed the fraud-keyword density feature and the
	// sentiment scorer's pattern penalty.
	FraudKeywords = []string{
		"urgent",
		"immediate",
		"work from home",
		"no experience",
		"easy money",
		"guaranteed",
		"quick cash",
	}

	// LegitKeywords feed the legit-keyword density feature and the
	// sentiment scorer's pattern bonus.
	LegitKeywords = []string{
		"benefits",
		"qualifications",
		"company",
		"responsibilities",
		"experience required",
		"salary",
	}

	PositiveWords = []string{"excellent", "great", "professional", "competitive", "benefits"}
	NegativeWords = []string{"scam", "urgent", "guaranteed", "easy", "quick"}

	// SimpleSuspicious and SimpleLegit are used by the simple fallback.
	SimpleSuspicious = []string{
		"urgent",
		"immediate",
		"work from home",
		"no experience",
		"easy money",
		"guaranteed",
	}
	SimpleLegit = []string{
		"benefits",
		"qualifications",
		"company",
		"responsibilities",
		"experience required",
	}

	// ExtendedSuspicious and ExtendedLegit are used by the enhanced fallback.
	ExtendedSuspicious = append(append([]string{}, SimpleSuspicious...),
		"quick cash",
		"no interview",
		"start today",
		"millionaire",
		"rich quick",
	)
	ExtendedLegit = append(append([]string{}, SimpleLegit...),
		"salary",
		"location",
		"requirements",
		"about us",
		"what we offer",
		"apply now",
	)
)

// CountMatches returns how many entries of keywords occur in text.
// Each keyword counts at most once regardless of repetitions.
func CountMatches(text string, keywords []string) int {
	return countLower(strings.ToLower(text), keywords)
}

func countLower(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}
