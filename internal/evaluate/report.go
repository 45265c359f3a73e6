package evaluate

import "time"

// ModelPrediction is one model's answer for a case
type ModelPrediction struct {
	Model        string `json:"model"`
	Record       Record `json:"record"`
	IsLegitimate bool   `json:"is_legitimate"`
	Err          error  `json:"-"`
}

// CaseOutcome is every model's answer for one case, in model order
type CaseOutcome struct {
	Index       int               `json:"index"`
	Case        TestCase          `json:"case"`
	Predictions []ModelPrediction `json:"predictions,omitempty"`
	Skipped     bool              `json:"skipped,omitempty"`
}

// CaseFailure records a case left out of a model's metrics. Model is empty
// when the case was skipped for all models.
type CaseFailure struct {
	Index int    `json:"index"`
	Model string `json:"model,omitempty"`
	Error string `json:"error"`
}

// Report is the result of one evaluation run
type Report struct {
	RunID     string              `json:"run_id"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration_ns"`
	Models    []string            `json:"models"`
	Cases     []CaseOutcome       `json:"cases"`
	Records   map[string][]Record `json:"-"`
	Metrics   map[string]Metrics  `json:"metrics"`
	Failures  []CaseFailure       `json:"failures,omitempty"`
}

// SampleCountsDiverge reports whether models were scored on different
// numbers of cases, which makes their metrics not directly comparable
func (r *Report) SampleCountsDiverge() bool {
	if len(r.Models) < 2 {
		return false
	}
	for _, name := range r.Models[1:] {
		if r.Metrics[name].Samples != r.Metrics[r.Models[0]].Samples {
			return true
		}
	}
	return false
}

// MetricDiff compares one metric between two models
type MetricDiff struct {
	Metric     string  `json:"metric"`
	Baseline   float64 `json:"baseline"`
	Challenger float64 `json:"challenger"`
	Difference float64 `json:"difference"` // challenger - baseline
}

// Comparison is a head-to-head of two models
type Comparison struct {
	Baseline            string       `json:"baseline"`
	Challenger          string       `json:"challenger"`
	Rows                []MetricDiff `json:"rows"`
	ChallengerWins      int          `json:"challenger_wins"`
	AUCWinner           string       `json:"auc_winner"`
	FewerFalsePositives bool         `json:"fewer_false_positives"`
	FewerFalseNegatives bool         `json:"fewer_false_negatives"`
	HigherAUC           bool         `json:"higher_auc"`
}

// Compare puts challenger against baseline. Ties in AUC go to the baseline.
func (r *Report) Compare(baseline, challenger string) Comparison {
	b := r.Metrics[baseline]
	c := r.Metrics[challenger]

	cmp := Comparison{Baseline: baseline, Challenger: challenger}
	for _, name := range MetricNames {
		bv, _ := b.Value(name)
		cv, _ := c.Value(name)
		cmp.Rows = append(cmp.Rows, MetricDiff{
			Metric:     name,
			Baseline:   bv,
			Challenger: cv,
			Difference: cv - bv,
		})
		if cv > bv {
			cmp.ChallengerWins++
		}
	}

	cmp.HigherAUC = c.AUC > b.AUC
	cmp.AUCWinner = baseline
	if cmp.HigherAUC {
		cmp.AUCWinner = challenger
	}
	cmp.FewerFalsePositives = c.FP < b.FP
	cmp.FewerFalseNegatives = c.FN < b.FN
	return cmp
}

// HeadToHead compares the last model against the first, or returns false
// when fewer than two models ran
func (r *Report) HeadToHead() (Comparison, bool) {
	if len(r.Models) < 2 {
		return Comparison{}, false
	}
	return r.Compare(r.Models[0], r.Models[len(r.Models)-1]), true
}
