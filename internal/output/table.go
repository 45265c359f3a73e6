package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/legitscore/internal/analysis"
	"github.com/vijay-prabhu/legitscore/internal/evaluate"
)

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case analysis.Analysis:
		return analysisDetail(w, v)
	case []analysis.Analysis:
		return analysesTable(w, v)
	case *evaluate.Report:
		return reportTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

// Verdict returns the human label for a legitimacy decision
func Verdict(legitimate bool) string {
	if legitimate {
		return "legitimate"
	}
	return "suspicious"
}

func analysisDetail(w io.Writer, a analysis.Analysis) error {
	r := a.Result
	fmt.Fprintf(w, "Model:       %s\n", a.Model)
	fmt.Fprintf(w, "Score:       %.1f / 100\n", r.OverallScore)
	fmt.Fprintf(w, "Verdict:     %s\n", Verdict(r.IsLegitimate))
	if a.Fallback {
		fmt.Fprintf(w, "Path:        fallback heuristic")
		if a.Cause != nil {
			fmt.Fprintf(w, " (%v)", a.Cause)
		}
		fmt.Fprintln(w)
	}

	if len(r.RiskFactors) > 0 {
		fmt.Fprintln(w, "Risk factors:")
		for _, f := range r.RiskFactors {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if len(r.LegitimacyFactors) > 0 {
		fmt.Fprintln(w, "Legitimacy factors:")
		for _, f := range r.LegitimacyFactors {
			fmt.Fprintf(w, "  + %s\n", f)
		}
	}
	return nil
}

func analysesTable(w io.Writer, as []analysis.Analysis) error {
	if len(as) == 0 {
		fmt.Fprintln(w, "No analyses.")
		return nil
	}
	if len(as) == 1 {
		return analysisDetail(w, as[0])
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Model", "Score", "Verdict", "Path", "Risk", "Legitimacy"})
	for _, a := range as {
		path := "primary"
		if a.Fallback {
			path = "fallback"
		}
		if err := table.Append([]string{
			a.Model,
			fmt.Sprintf("%.1f", a.Result.OverallScore),
			Verdict(a.Result.IsLegitimate),
			path,
			strings.Join(a.Result.RiskFactors, "; "),
			strings.Join(a.Result.LegitimacyFactors, "; "),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// CaseLine formats one evaluated case, e.g.
// "Case 3 [legitimate] sequence: 0.812 (1) ✓ | sentiment: 0.900 (1) ✓ | actual: 1". mark
// decorates the ✓/✗ of each prediction and may be nil.
func CaseLine(o evaluate.CaseOutcome, mark func(correct bool) string) string {
	if mark == nil {
		mark = PlainMark
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Case %d", o.Index+1)
	if o.Case.Category != "" {
		fmt.Fprintf(&b, " [%s]", o.Case.Category)
	}
	if o.Skipped {
		b.WriteString(" skipped")
		return b.String()
	}

	parts := make([]string, 0, len(o.Predictions))
	for _, p := range o.Predictions {
		if p.Err != nil {
			parts = append(parts, fmt.Sprintf("%s: failed", p.Model))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %.3f (%d) %s",
			p.Model, p.Record.Prediction, p.Record.BinaryPrediction, mark(p.Record.Correct)))
	}
	parts = append(parts, fmt.Sprintf("actual: %d", o.Case.Label))
	b.WriteString(" ")
	b.WriteString(strings.Join(parts, " | "))
	return b.String()
}

// PlainMark renders ✓ or ✗ without decoration
func PlainMark(correct bool) string {
	if correct {
		return "✓"
	}
	return "✗"
}

func reportTable(w io.Writer, r *evaluate.Report) error {
	fmt.Fprintln(w, "Model Comparison")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	if err := metricsTable(w, r); err != nil {
		return err
	}

	if cmp, ok := r.HeadToHead(); ok {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s outperforms %s in %d/%d metrics\n",
			cmp.Challenger, cmp.Baseline, cmp.ChallengerWins, len(cmp.Rows))
		fmt.Fprintf(w, "Best AUC: %s\n", cmp.AUCWinner)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Confusion Matrix")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, name := range r.Models {
		m := r.Metrics[name]
		fmt.Fprintf(w, "%s: TP=%d TN=%d FP=%d FN=%d (%d samples)\n", name, m.TP, m.TN, m.FP, m.FN, m.Samples)
	}

	if cmp, ok := r.HeadToHead(); ok {
		insights := keyInsights(cmp)
		if len(insights) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Key Insights")
			fmt.Fprintln(w, strings.Repeat("-", 50))
			for _, s := range insights {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
	}

	if r.SampleCountsDiverge() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warning: models were scored on different numbers of cases; metrics are not directly comparable")
	}
	if len(r.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Skipped (%d):\n", len(r.Failures))
		for _, f := range r.Failures {
			model := "all models"
			if f.Model != "" {
				model = f.Model
			}
			fmt.Fprintf(w, "  case %d (%s): %s\n", f.Index+1, model, f.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s: %d cases in %s\n", r.RunID, len(r.Cases), r.Duration.Round(time.Millisecond))
	return nil
}

// metricsTable renders one row per metric, one column per model, plus the
// challenger-minus-baseline difference when two or more models ran
func metricsTable(w io.Writer, r *evaluate.Report) error {
	header := append([]string{"Metric"}, r.Models...)
	cmp, compared := r.HeadToHead()
	if compared {
		header = append(header, "Difference")
	}

	table := tablewriter.NewWriter(w)
	table.Header(header)
	for i, name := range evaluate.MetricNames {
		row := []string{metricLabel(name)}
		for _, model := range r.Models {
			v, _ := r.Metrics[model].Value(name)
			row = append(row, fmt.Sprintf("%.3f", v))
		}
		if compared {
			row = append(row, formatDiff(cmp.Rows[i].Difference))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// formatDiff signs only positive differences
func formatDiff(d float64) string {
	if d > 0 {
		return fmt.Sprintf("+%.3f", d)
	}
	return fmt.Sprintf("%.3f", d)
}

func metricLabel(name string) string {
	switch name {
	case "accuracy":
		return "Accuracy"
	case "precision":
		return "Precision"
	case "recall":
		return "Recall"
	case "f1Score":
		return "F1 Score"
	case "auc":
		return "AUC"
	default:
		return name
	}
}

func keyInsights(cmp evaluate.Comparison) []string {
	var out []string
	if cmp.FewerFalsePositives {
		out = append(out, fmt.Sprintf("%s produces fewer false positives than %s", cmp.Challenger, cmp.Baseline))
	}
	if cmp.FewerFalseNegatives {
		out = append(out, fmt.Sprintf("%s produces fewer false negatives than %s", cmp.Challenger, cmp.Baseline))
	}
	if cmp.HigherAUC {
		out = append(out, fmt.Sprintf("%s ranks postings better (higher AUC) than %s", cmp.Challenger, cmp.Baseline))
	}
	return out
}
