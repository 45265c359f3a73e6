package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/legitscore/internal/analysis"
	"github.com/vijay-prabhu/legitscore/internal/evaluate"
	"github.com/vijay-prabhu/legitscore/internal/scoring"
)

func sampleReport() *evaluate.Report {
	seq := []evaluate.Record{
		{Prediction: 0.6, BinaryPrediction: 1, Actual: 1, Correct: true},
		{Prediction: 0.7, BinaryPrediction: 1, Actual: 0, Correct: false},
	}
	sent := []evaluate.Record{
		{Prediction: 0.9, BinaryPrediction: 1, Actual: 1, Correct: true},
		{Prediction: 0.1, BinaryPrediction: 0, Actual: 0, Correct: true},
	}
	return &evaluate.Report{
		RunID:  "run-1",
		Models: []string{"sequence", "sentiment"},
		Cases: []evaluate.CaseOutcome{
			{Index: 0, Case: evaluate.TestCase{Text: "a", Label: 1, Category: "legitimate"}},
			{Index: 1, Case: evaluate.TestCase{Text: "b", Label: 0, Category: "fraudulent"}},
		},
		Records: map[string][]evaluate.Record{"sequence": seq, "sentiment": sent},
		Metrics: map[string]evaluate.Metrics{
			"sequence":  evaluate.ComputeMetrics(seq),
			"sentiment": evaluate.ComputeMetrics(sent),
		},
	}
}

func TestTableTo_Report(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Accuracy")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "1.000")
	assert.Contains(t, out, "+0.500")
	assert.NotContains(t, out, "+0.000", "equal recall is unsigned")
	assert.Contains(t, out, "sentiment outperforms sequence in 4/5 metrics")
	assert.Contains(t, out, "Best AUC: sentiment")
	assert.Contains(t, out, "sequence: TP=1 TN=0 FP=1 FN=0 (2 samples)")
	assert.Contains(t, out, "sentiment produces fewer false positives than sequence")
	assert.NotContains(t, out, "fewer false negatives")
	assert.NotContains(t, out, "Warning")
}

func TestTableTo_ReportSingleModel(t *testing.T) {
	r := sampleReport()
	r.Models = []string{"sentiment"}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, r))

	out := buf.String()
	assert.NotContains(t, out, "outperforms")
	assert.NotContains(t, out, "Key Insights")
	assert.Contains(t, out, "sentiment: TP=1 TN=1 FP=0 FN=0")
}

func TestTableTo_ReportFailures(t *testing.T) {
	r := sampleReport()
	r.Metrics["sequence"] = evaluate.ComputeMetrics(r.Records["sequence"][:1])
	r.Failures = []evaluate.CaseFailure{
		{Index: 1, Model: "sequence", Error: "analyze panicked: boom"},
		{Index: 4, Error: "label must be 0 or 1, got 3"},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "Warning: models were scored on different numbers of cases")
	assert.Contains(t, out, "case 2 (sequence): analyze panicked: boom")
	assert.Contains(t, out, "case 5 (all models): label must be 0 or 1, got 3")
}

func TestTableTo_Analysis(t *testing.T) {
	a := analysis.Analysis{
		Model:    "sentiment",
		Result:   scoring.NewResult(25, []string{"Suspicious keywords detected"}, nil),
		Fallback: true,
		Cause:    errors.New("classifier unavailable"),
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, a))

	out := buf.String()
	assert.Contains(t, out, "Score:       25.0 / 100")
	assert.Contains(t, out, "Verdict:     suspicious")
	assert.Contains(t, out, "fallback heuristic (classifier unavailable)")
	assert.Contains(t, out, "  - Suspicious keywords detected")
	assert.NotContains(t, out, "Legitimacy factors")
}

func TestTableTo_Analyses(t *testing.T) {
	as := []analysis.Analysis{
		{Model: "sequence", Result: scoring.NewResult(80, nil, []string{"LSTM model confirms legitimate patterns"})},
		{Model: "sentiment", Result: scoring.NewResult(30, []string{"Negative tone detected in job posting"}, nil), Fallback: true},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, as))

	out := buf.String()
	assert.Contains(t, out, "80.0")
	assert.Contains(t, out, "legitimate")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "30.0")
}

func TestFormatDiff(t *testing.T) {
	tests := []struct {
		d    float64
		want string
	}{
		{0.5, "+0.500"},
		{0, "0.000"},
		{-0.25, "-0.250"},
	}
	for _, tt := range tests {
		if got := formatDiff(tt.d); got != tt.want {
			t.Errorf("formatDiff(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTableTo_Unsupported(t *testing.T) {
	err := TableTo(&bytes.Buffer{}, 42)
	assert.Error(t, err)
}

func TestOutputTo(t *testing.T) {
	a := analysis.Analysis{Model: "sequence", Result: scoring.NewResult(70, nil, nil)}

	var buf bytes.Buffer
	require.NoError(t, OutputTo(&buf, "json", a))

	var decoded struct {
		Model  string `json:"model"`
		Result struct {
			IsLegitimate bool     `json:"is_legitimate"`
			OverallScore float64  `json:"overall_score"`
			RiskFactors  []string `json:"risk_factors"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sequence", decoded.Model)
	assert.True(t, decoded.Result.IsLegitimate)
	assert.Equal(t, 70.0, decoded.Result.OverallScore)
	assert.True(t, strings.Contains(buf.String(), `"risk_factors": []`))

	assert.Error(t, OutputTo(&buf, "yaml", a))
}

func TestCaseLine(t *testing.T) {
	o := evaluate.CaseOutcome{
		Index: 2,
		Case:  evaluate.TestCase{Label: 1, Category: "legitimate"},
		Predictions: []evaluate.ModelPrediction{
			{Model: "sequence", Record: evaluate.Record{Prediction: 0.8126, BinaryPrediction: 1, Correct: true}},
			{Model: "sentiment", Record: evaluate.Record{Prediction: 0.3, BinaryPrediction: 0, Correct: false}},
		},
	}

	got := CaseLine(o, nil)
	want := "Case 3 [legitimate] sequence: 0.813 (1) ✓ | sentiment: 0.300 (0) ✗ | actual: 1"
	if got != want {
		t.Errorf("CaseLine() = %q, want %q", got, want)
	}

	o.Predictions[1].Err = errors.New("boom")
	assert.Contains(t, CaseLine(o, nil), "sentiment: failed")

	skipped := evaluate.CaseOutcome{Index: 0, Skipped: true}
	assert.Equal(t, "Case 1 skipped", CaseLine(skipped, nil))

	bracket := func(ok bool) string { return "[" + PlainMark(ok) + "]" }
	assert.Contains(t, CaseLine(o, bracket), "[✓]")
}
