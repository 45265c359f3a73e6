// Package features turns posting text into the fixed-width numeric vector
// consumed by the scoring models.
package features

import (
	"strings"
	"unicode/utf8"
)

const (
	// CoreWidth is the number of signals computed from the text
	CoreWidth = 8
	// Width is the model input width; the trailing slots are reserved
	Width = 10
)

// Feature indices within a Vector
const (
	IdxLength = iota
	IdxWords
	IdxFraudDensity
	IdxLegitDensity
	IdxPositiveDensity
	IdxNegativeDensity
	IdxUppercaseRatio
	IdxPunctuationRatio
)

// Vector is the padded model input
type Vector [Width]float64

// Slice returns the vector as a slice for the model
func (v Vector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}

// Extract computes the eight core signals of text. It has no failure modes:
// ratios over an empty text are zero.
func Extract(text string) []float64 {
	lower := strings.ToLower(text)
	length := Length(text)

	out := make([]float64, 0, CoreWidth)
	out = append(out, float64(length)/1000)
	out = append(out, float64(WordCount(text))/100)
	out = append(out, float64(countLower(lower, FraudKeywords))/10)
	out = append(out, float64(countLower(lower, LegitKeywords))/10)
	out = append(out, float64(countLower(lower, PositiveWords))/5)
	out = append(out, float64(countLower(lower, NegativeWords))/5)
	out = append(out, UppercaseRatio(text))
	out = append(out, ratio(countPunctuation(text), length))
	return out
}

// ExtractVector returns Extract padded with the two reserved zero slots
func ExtractVector(text string) Vector {
	var v Vector
	copy(v[:], Extract(text))
	return v
}

// Length is the text length in code points
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

// WordCount splits on whitespace
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// UppercaseRatio is the share of ASCII capital letters, 0 for empty text
func UppercaseRatio(text string) float64 {
	upper := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	return ratio(upper, Length(text))
}

func countPunctuation(text string) int {
	return strings.Count(text, "!") + strings.Count(text, "?")
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
