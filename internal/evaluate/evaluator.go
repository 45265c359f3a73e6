package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vijay-prabhu/legitscore/internal/analysis"
)

// ProgressCallback is called after each test case
type ProgressCallback func(current, total int, outcome CaseOutcome)

// Evaluator runs a corpus through a fixed, ordered set of models
type Evaluator struct {
	models   []analysis.Analyzer
	log      logrus.FieldLogger
	progress ProgressCallback
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithLogger sets the logger for skipped cases
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Evaluator) {
		e.log = log
	}
}

// WithProgress sets a per-case callback
func WithProgress(fn ProgressCallback) Option {
	return func(e *Evaluator) {
		e.progress = fn
	}
}

// New creates an evaluator. Model order is the report's column order;
// names must be unique.
func New(models []analysis.Analyzer, opts ...Option) (*Evaluator, error) {
	if len(models) == 0 {
		return nil, errors.New("at least one model is required")
	}
	seen := make(map[string]bool, len(models))
	for _, m := range models {
		if seen[m.Name()] {
			return nil, fmt.Errorf("duplicate model name %q", m.Name())
		}
		seen[m.Name()] = true
	}

	e := &Evaluator{models: models}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		e.log = l
	}
	return e, nil
}

// Run analyzes every case with every model and computes per-model metrics.
// Models are queried concurrently per case; records keep corpus order. A
// failing case is logged and left out of the affected model's records.
func (e *Evaluator) Run(ctx context.Context, cases []TestCase) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Models:    make([]string, len(e.models)),
		Records:   make(map[string][]Record, len(e.models)),
		Metrics:   make(map[string]Metrics, len(e.models)),
	}
	for i, m := range e.models {
		report.Models[i] = m.Name()
		report.Records[m.Name()] = []Record{}
	}

	for i, tc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := CaseOutcome{Index: i, Case: tc}
		if err := tc.Validate(); err != nil {
			e.skip(report, i, "", err)
			outcome.Skipped = true
		} else {
			outcome.Predictions = e.runCase(ctx, tc)
			for _, p := range outcome.Predictions {
				if p.Err != nil {
					e.skip(report, i, p.Model, p.Err)
					continue
				}
				report.Records[p.Model] = append(report.Records[p.Model], p.Record)
			}
		}

		report.Cases = append(report.Cases, outcome)
		if e.progress != nil {
			e.progress(i+1, len(cases), outcome)
		}
	}

	for _, name := range report.Models {
		report.Metrics[name] = ComputeMetrics(report.Records[name])
	}
	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// runCase queries all models for one case, in model order
func (e *Evaluator) runCase(ctx context.Context, tc TestCase) []ModelPrediction {
	preds := make([]ModelPrediction, len(e.models))

	var g errgroup.Group
	for i, m := range e.models {
		g.Go(func() error {
			preds[i] = predict(ctx, m, tc)
			return nil
		})
	}
	g.Wait()

	return preds
}

func predict(ctx context.Context, m analysis.Analyzer, tc TestCase) (p ModelPrediction) {
	p.Model = m.Name()
	defer func() {
		if r := recover(); r != nil {
			p.Err = fmt.Errorf("analyze panicked: %v", r)
		}
	}()

	result := m.Analyze(ctx, tc.Text)
	p.IsLegitimate = result.IsLegitimate
	p.Record = NewRecord(result, tc.Label)
	return p
}

func (e *Evaluator) skip(report *Report, index int, model string, err error) {
	report.Failures = append(report.Failures, CaseFailure{Index: index, Model: model, Error: err.Error()})

	entry := e.log.WithError(err).WithField("case", index+1)
	if model != "" {
		entry = entry.WithField("model", model)
	}
	entry.Warn("skipping test case")
}
