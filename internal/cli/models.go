package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vijay-prabhu/legitscore/internal/analysis"
	"github.com/vijay-prabhu/legitscore/internal/config"
	"github.com/vijay-prabhu/legitscore/internal/scoring"
	"github.com/vijay-prabhu/legitscore/internal/sentiment"
)

// modelNames lists every scorer the CLI can build
var modelNames = []string{scoring.SequenceName, scoring.SentimentName}

// selectModels resolves a --model flag against the configured order.
// "all" or "" selects every configured model.
func selectModels(configured []string, flag string) ([]string, error) {
	if flag == "" || flag == "all" {
		return configured, nil
	}
	if !slices.Contains(modelNames, flag) {
		return nil, fmt.Errorf("unknown model %q (must be one of %v or 'all')", flag, modelNames)
	}
	return []string{flag}, nil
}

// newClassifier returns the tone classifier configured for the sentiment scorer
func newClassifier(cfg config.SentimentConfig) sentiment.Classifier {
	if cfg.Backend == "remote" {
		return sentiment.NewClient(cfg.URL(), cfg.Timeout())
	}
	return sentiment.NewLexicon()
}

// newScorer builds the named scorer
func newScorer(name string, cfg *config.Config, log logrus.FieldLogger) (scoring.Scorer, error) {
	switch name {
	case scoring.SequenceName:
		return scoring.NewSequenceScorer(cfg.Model.ToModel(), log), nil
	case scoring.SentimentName:
		return scoring.NewSentimentScorer(newClassifier(cfg.Sentiment)), nil
	default:
		return nil, fmt.Errorf("unknown model %q", name)
	}
}

// warnFallbacks notes each service pinned to its fallback heuristic
func warnFallbacks(w io.Writer, services []*analysis.Service) {
	for _, svc := range services {
		if svc.State() == analysis.StateFailed {
			fmt.Fprintf(w, "Warning: %s failed to initialize; its results come from the fallback heuristic\n", svc.Name())
		}
	}
}

// buildServices wraps each named scorer in an analysis service, in order
func buildServices(names []string, cfg *config.Config, log logrus.FieldLogger) ([]*analysis.Service, error) {
	services := make([]*analysis.Service, 0, len(names))
	for _, name := range names {
		scorer, err := newScorer(name, cfg, log)
		if err != nil {
			return nil, err
		}
		services = append(services, analysis.NewService(scorer, analysis.WithLogger(log)))
	}
	return services, nil
}
