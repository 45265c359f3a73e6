package scoring

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vijay-prabhu/legitscore/internal/features"
	"github.com/vijay-prabhu/legitscore/internal/model"
)

// SequenceName identifies the sequence-flavored scorer
const SequenceName = "sequence"

// SequenceScorer scores postings with a small neural network trained once
// on the synthetic corpus.
type SequenceScorer struct {
	config model.Config
	log    logrus.FieldLogger
	net    *model.Network
}

// NewSequenceScorer creates an untrained scorer
func NewSequenceScorer(cfg model.Config, log logrus.FieldLogger) *SequenceScorer {
	return &SequenceScorer{config: cfg, log: log}
}

func (s *SequenceScorer) Name() string { return SequenceName }

// Initialize trains the network on the synthetic corpus
func (s *SequenceScorer) Initialize(ctx context.Context) error {
	corpus := model.TrainingCorpus()
	examples := make([]model.Example, 0, len(corpus))
	for _, c := range corpus {
		examples = append(examples, model.Example{
			Features: features.ExtractVector(c.Text).Slice(),
			Label:    c.Label,
		})
	}

	net, history, err := model.Train(ctx, examples, s.config, s.log)
	if err != nil {
		return fmt.Errorf("train sequence model: %w", err)
	}

	s.net = net
	if s.log != nil {
		final := history.Final()
		s.log.WithFields(logrus.Fields{
			"epochs":   len(history),
			"loss":     fmt.Sprintf("%.4f", final.Loss),
			"val_loss": fmt.Sprintf("%.4f", final.ValidationLoss),
		}).Info("sequence model training completed")
	}
	return nil
}

// RawScore returns the network's legitimacy probability scaled to 0-100
func (s *SequenceScorer) RawScore(text string) (float64, error) {
	if s.net == nil {
		return 0, ErrClassifierUnavailable
	}
	p, err := s.net.Predict(features.ExtractVector(text).Slice())
	if err != nil {
		return 0, err
	}
	return p * 100, nil
}

// Score runs the trained network.
//
// Raw scores at or below 50 are mirrored to 100-raw, so a confident
// "fraudulent" prediction still yields a high legitimacy score. Factors are
// keyed on the raw score and do carry the fraud signal.
func (s *SequenceScorer) Score(ctx context.Context, text string) (Result, error) {
	raw, err := s.RawScore(text)
	if err != nil {
		return Result{}, err
	}

	legitimacy := raw
	if raw <= 50 {
		legitimacy = 100 - raw
	}

	var riskFactors, legitFactors []string
	if raw <= 50 {
		riskFactors = append(riskFactors, "LSTM model detected suspicious patterns", "Neural network analysis suggests potential fraud")
		if raw < 30 {
			riskFactors = append(riskFactors, "Strong indication of fraudulent content")
		}
	} else {
		legitFactors = append(legitFactors, "LSTM model confirms legitimate patterns", "Neural network analysis supports authenticity")
		if raw > 70 {
			legitFactors = append(legitFactors, "High confidence in content legitimacy")
		}
	}

	switch length := features.Length(text); {
	case length < 100:
		riskFactors = append(riskFactors, "Job posting is unusually short")
	case length > 2000:
		legitFactors = append(legitFactors, "Detailed job description provided")
	}

	return NewResult(legitimacy, riskFactors, legitFactors), nil
}

// Fallback is the enhanced keyword heuristic
func (s *SequenceScorer) Fallback(text string) Result {
	return EnhancedFallback(text)
}
