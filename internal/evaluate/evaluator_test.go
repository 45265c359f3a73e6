package evaluate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/legitscore/internal/analysis"
	"github.com/vijay-prabhu/legitscore/internal/model"
	"github.com/vijay-prabhu/legitscore/internal/scoring"
	"github.com/vijay-prabhu/legitscore/internal/sentiment"
)

// tableAnalyzer returns fixed scores per text and panics on "boom"
type tableAnalyzer struct {
	name   string
	scores map[string]float64
}

func (a *tableAnalyzer) Name() string { return a.name }

func (a *tableAnalyzer) Analyze(ctx context.Context, text string) scoring.Result {
	if text == "boom" {
		panic("backend crashed")
	}
	return scoring.NewResult(a.scores[text], nil, nil)
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	return log, hook
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	a := &tableAnalyzer{name: "same"}
	_, err = New([]analysis.Analyzer{a, a})
	assert.Error(t, err)
}

func TestEvaluator_Run(t *testing.T) {
	cases := []TestCase{
		{Text: "good", Label: 1, Category: "legitimate"},
		{Text: "bad", Label: 0, Category: "fraudulent"},
		{Text: "meh", Label: 0, Category: "suspicious"},
	}
	perfect := &tableAnalyzer{name: "perfect", scores: map[string]float64{"good": 90, "bad": 10, "meh": 20}}
	naive := &tableAnalyzer{name: "naive", scores: map[string]float64{"good": 60, "bad": 70, "meh": 55}}

	var progress []int
	log, _ := quietLogger()
	e, err := New([]analysis.Analyzer{naive, perfect}, WithLogger(log), WithProgress(func(cur, total int, _ CaseOutcome) {
		assert.Equal(t, 3, total)
		progress = append(progress, cur)
	}))
	require.NoError(t, err)

	report, err := e.Run(context.Background(), cases)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, []string{"naive", "perfect"}, report.Models)
	assert.Equal(t, []int{1, 2, 3}, progress)
	require.Len(t, report.Cases, 3)
	assert.Equal(t, "naive", report.Cases[0].Predictions[0].Model)
	assert.Equal(t, "perfect", report.Cases[0].Predictions[1].Model)

	p := report.Metrics["perfect"]
	assert.Equal(t, 1.0, p.Accuracy)
	assert.Equal(t, 1.0, p.AUC)
	assert.Equal(t, 1, p.TP)
	assert.Equal(t, 2, p.TN)

	n := report.Metrics["naive"]
	assert.Equal(t, 1, n.TP)
	assert.Equal(t, 2, n.FP)
	assert.InDelta(t, 1.0/3, n.Accuracy, 1e-12)
	// good ranks below bad but above meh
	assert.InDelta(t, 0.5, n.AUC, 1e-12)

	cmp, ok := report.HeadToHead()
	require.True(t, ok)
	assert.Equal(t, "naive", cmp.Baseline)
	assert.Equal(t, "perfect", cmp.Challenger)
	assert.Equal(t, "perfect", cmp.AUCWinner)
	assert.True(t, cmp.HigherAUC)
	assert.True(t, cmp.FewerFalsePositives)
	assert.False(t, cmp.FewerFalseNegatives)
	require.Len(t, cmp.Rows, len(MetricNames))
	assert.Equal(t, "accuracy", cmp.Rows[0].Metric)
	assert.InDelta(t, 2.0/3, cmp.Rows[0].Difference, 1e-12)
	// precision 1 vs 1/3, recall equal at 1
	assert.Equal(t, 4, cmp.ChallengerWins)
	assert.False(t, report.SampleCountsDiverge())
}

func TestEvaluator_SkipsFailingCases(t *testing.T) {
	cases := []TestCase{
		{Text: "good", Label: 1},
		{Text: "boom", Label: 1},
		{Text: "bad", Label: 7},
		{Text: "bad", Label: 0},
	}
	crashy := &tableAnalyzer{name: "crashy", scores: map[string]float64{"good": 90, "bad": 10}}
	log, hook := quietLogger()

	e, err := New([]analysis.Analyzer{crashy}, WithLogger(log))
	require.NoError(t, err)

	report, err := e.Run(context.Background(), cases)
	require.NoError(t, err)

	assert.Len(t, report.Records["crashy"], 2)
	assert.Equal(t, 2, report.Metrics["crashy"].Samples)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, CaseFailure{Index: 1, Model: "crashy", Error: "analyze panicked: backend crashed"}, report.Failures[0])
	assert.Equal(t, 2, report.Failures[1].Index)
	assert.Empty(t, report.Failures[1].Model)
	assert.True(t, report.Cases[2].Skipped)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestEvaluator_ModelSpecificFailureDivergesSamples(t *testing.T) {
	cases := []TestCase{{Text: "good", Label: 1}, {Text: "boom", Label: 0}}
	crashy := &tableAnalyzer{name: "crashy", scores: map[string]float64{"good": 90}}
	steady := &steadyAnalyzer{}
	log, _ := quietLogger()

	e, err := New([]analysis.Analyzer{steady, crashy}, WithLogger(log))
	require.NoError(t, err)
	report, err := e.Run(context.Background(), cases)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Metrics["steady"].Samples)
	assert.Equal(t, 1, report.Metrics["crashy"].Samples)
	assert.True(t, report.SampleCountsDiverge())
}

type steadyAnalyzer struct{}

func (steadyAnalyzer) Name() string { return "steady" }

func (steadyAnalyzer) Analyze(ctx context.Context, text string) scoring.Result {
	return scoring.NewResult(75, nil, nil)
}

func TestEvaluator_CancelledContext(t *testing.T) {
	e, err := New([]analysis.Analyzer{steadyAnalyzer{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx, DefaultCorpus())
	assert.ErrorIs(t, err, context.Canceled)
}

func realModels() []analysis.Analyzer {
	return []analysis.Analyzer{
		analysis.NewService(scoring.NewSequenceScorer(model.DefaultConfig(), nil)),
		analysis.NewService(scoring.NewSentimentScorer(sentiment.NewLexicon())),
	}
}

func TestEvaluator_DeterministicOnDefaultCorpus(t *testing.T) {
	e, err := New(realModels())
	require.NoError(t, err)

	first, err := e.Run(context.Background(), DefaultCorpus())
	require.NoError(t, err)
	second, err := e.Run(context.Background(), DefaultCorpus())
	require.NoError(t, err)

	assert.Equal(t, first.Metrics, second.Metrics)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Empty(t, first.Failures)

	for _, name := range first.Models {
		m := first.Metrics[name]
		assert.Equal(t, 13, m.Samples)
		assert.Equal(t, 13, m.TP+m.TN+m.FP+m.FN)
		assert.GreaterOrEqual(t, m.AUC, 0.0)
		assert.LessOrEqual(t, m.AUC, 1.0)
	}

	// Fresh, separately trained services agree too
	e2, err := New(realModels())
	require.NoError(t, err)
	third, err := e2.Run(context.Background(), DefaultCorpus())
	require.NoError(t, err)
	assert.Equal(t, first.Metrics, third.Metrics)
}

func TestEvaluator_SentimentSeparatesDefaultCorpus(t *testing.T) {
	svc := analysis.NewService(scoring.NewSentimentScorer(sentiment.NewLexicon()))
	e, err := New([]analysis.Analyzer{svc})
	require.NoError(t, err)

	report, err := e.Run(context.Background(), DefaultCorpus())
	require.NoError(t, err)

	m := report.Metrics["sentiment"]
	assert.Equal(t, 0, m.FP, "no fraudulent posting should pass")
	assert.Equal(t, 8, m.TN)
}

func TestDefaultCorpus(t *testing.T) {
	corpus := DefaultCorpus()
	require.Len(t, corpus, 13)

	counts := map[string]int{}
	for _, tc := range corpus {
		require.NoError(t, tc.Validate())
		counts[tc.Category]++
		assert.Equal(t, tc.Category == "legitimate", tc.Label == 1)
	}
	assert.Equal(t, map[string]int{"legitimate": 5, "suspicious": 3, "fraudulent": 5}, counts)
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "corpus.toml")
	content := `
[[cases]]
text = "Competitive salary and benefits"
label = 1
category = "legitimate"

[[cases]]
text = "Easy money, start today"
label = 0
category = "suspicious"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cases, err := LoadCorpus(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, TestCase{Text: "Easy money, start today", Label: 0, Category: "suspicious"}, cases[1])

	empty := filepath.Join(dir, "empty.toml")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0644))
	_, err = LoadCorpus(empty)
	assert.Error(t, err)

	_, err = LoadCorpus(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[[cases]\n"), 0644))
	_, err = LoadCorpus(bad)
	assert.Error(t, err)
}

func TestEvaluator_ConcurrentRunsShareServices(t *testing.T) {
	e, err := New(realModels())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Report, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := e.Run(context.Background(), DefaultCorpus()[:4])
			assert.NoError(t, err)
			results[i] = r
		}()
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.Equal(t, results[0].Metrics, r.Metrics)
	}
	assert.True(t, strings.HasPrefix(results[0].Cases[0].Case.Text, "Senior Software Engineer"))
}
