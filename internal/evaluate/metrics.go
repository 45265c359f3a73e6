// Package evaluate compares legitimacy scorers against a labeled corpus.
package evaluate

import (
	"sort"

	"github.com/vijay-prabhu/legitscore/internal/scoring"
)

// Record is one model's outcome on one test case
type Record struct {
	Prediction       float64 `json:"prediction"` // 0.0-1.0
	BinaryPrediction int     `json:"binary_prediction"`
	Actual           int     `json:"actual"`
	Correct          bool    `json:"correct"`
}

// NewRecord converts a scorer result into a record for label
func NewRecord(r scoring.Result, label int) Record {
	p := r.Probability()
	binary := 0
	if p > 0.5 {
		binary = 1
	}
	return Record{
		Prediction:       p,
		BinaryPrediction: binary,
		Actual:           label,
		Correct:          binary == label,
	}
}

// Metrics are the binary classification metrics of one model
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	AUC       float64 `json:"auc"`
	TP        int     `json:"tp"`
	TN        int     `json:"tn"`
	FP        int     `json:"fp"`
	FN        int     `json:"fn"`
	Samples   int     `json:"samples"`
}

// MetricNames lists the comparable metrics in report order
var MetricNames = []string{"accuracy", "precision", "recall", "f1Score", "auc"}

// Value returns the metric called name, or false if unknown
func (m Metrics) Value(name string) (float64, bool) {
	switch name {
	case "accuracy":
		return m.Accuracy, true
	case "precision":
		return m.Precision, true
	case "recall":
		return m.Recall, true
	case "f1Score":
		return m.F1Score, true
	case "auc":
		return m.AUC, true
	default:
		return 0, false
	}
}

// ComputeMetrics derives the confusion matrix and metrics from records.
// Undefined ratios are zero.
func ComputeMetrics(records []Record) Metrics {
	m := Metrics{Samples: len(records)}
	for _, r := range records {
		switch {
		case r.BinaryPrediction == 1 && r.Actual == 1:
			m.TP++
		case r.BinaryPrediction == 0 && r.Actual == 0:
			m.TN++
		case r.BinaryPrediction == 1 && r.Actual == 0:
			m.FP++
		case r.BinaryPrediction == 0 && r.Actual == 1:
			m.FN++
		}
	}

	m.Accuracy = safeDiv(float64(m.TP+m.TN), float64(len(records)))
	m.Precision = safeDiv(float64(m.TP), float64(m.TP+m.FP))
	m.Recall = safeDiv(float64(m.TP), float64(m.TP+m.FN))
	m.F1Score = safeDiv(2*m.Precision*m.Recall, m.Precision+m.Recall)
	m.AUC = AUC(records)
	return m
}

// AUC estimates the area under the ROC curve by sweeping records in
// descending prediction order and integrating with the trapezoidal rule.
// Ties keep their input order. Returns 0 when either class is absent.
func AUC(records []Record) float64 {
	var totalPos, totalNeg int
	for _, r := range records {
		if r.Actual == 1 {
			totalPos++
		} else {
			totalNeg++
		}
	}
	if totalPos == 0 || totalNeg == 0 {
		return 0
	}

	sorted := append([]Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Prediction > sorted[j].Prediction
	})

	var auc, prevTPR, prevFPR float64
	var tp, fp int
	for _, r := range sorted {
		if r.Actual == 1 {
			tp++
		} else {
			fp++
		}
		tpr := float64(tp) / float64(totalPos)
		fpr := float64(fp) / float64(totalNeg)

		auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
		prevTPR, prevFPR = tpr, fpr
	}
	return auc
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
