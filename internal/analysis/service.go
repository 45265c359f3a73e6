// Package analysis wraps a scorer in a service that never fails its caller.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/vijay-prabhu/legitscore/internal/scoring"
)

// State is the initialization state of a service
type State string

const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Analyzer is the contract consumed by the evaluator and the CLI
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, text string) scoring.Result
}

// Analysis is a result together with the path that produced it
type Analysis struct {
	Model    string         `json:"model"`
	Result   scoring.Result `json:"result"`
	Fallback bool           `json:"fallback"`
	Cause    error          `json:"-"`
	Duration time.Duration  `json:"duration_ns"`
}

// Service exposes one scorer variant. Initialization runs once; concurrent
// callers share the in-flight attempt. A failed initialization pins the
// service to the scorer's fallback heuristic.
type Service struct {
	scorer scoring.Scorer
	log    logrus.FieldLogger
	group  singleflight.Group

	mu      sync.RWMutex
	state   State
	initErr error
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for fallbacks and initialization
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService wraps scorer
func NewService(scorer scoring.Scorer, opts ...Option) *Service {
	s := &Service{
		scorer: scorer,
		state:  StatePending,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		s.log = l
	}
	s.log = s.log.WithField("scorer", scorer.Name())
	return s
}

// Name returns the wrapped scorer's name
func (s *Service) Name() string {
	return s.scorer.Name()
}

// State returns the initialization state
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// EnsureReady initializes the scorer once. It returns the initialization
// failure, if any; the service remains usable either way.
func (s *Service) EnsureReady(ctx context.Context) error {
	if state, err := s.settled(); state != StatePending {
		return err
	}

	// Initialization outlives any single caller's cancellation.
	ictx := context.WithoutCancel(ctx)
	_, err, _ := s.group.Do("init", func() (interface{}, error) {
		if state, err := s.settled(); state != StatePending {
			return nil, err
		}

		start := time.Now()
		err := s.initialize(ictx)

		s.mu.Lock()
		if err != nil {
			s.state = StateFailed
			s.initErr = &InitializationFailure{Scorer: s.scorer.Name(), Err: err}
		} else {
			s.state = StateReady
		}
		initErr := s.initErr
		s.mu.Unlock()

		if initErr != nil {
			s.log.WithError(err).Warn("initialization failed, using fallback heuristic")
		} else {
			s.log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("scorer ready")
		}
		return nil, initErr
	})
	return err
}

func (s *Service) settled() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.initErr
}

func (s *Service) initialize(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.scorer.Initialize(ctx)
}

// Analyze scores text. It always returns a valid result, substituting the
// fallback heuristic when the primary model is unavailable or fails.
func (s *Service) Analyze(ctx context.Context, text string) scoring.Result {
	return s.Inspect(ctx, text).Result
}

// Inspect is Analyze with the path taken and the failure cause, if any
func (s *Service) Inspect(ctx context.Context, text string) Analysis {
	start := time.Now()
	out := s.run(ctx, text)
	out.Model = s.scorer.Name()
	out.Duration = time.Since(start)
	return out
}

func (s *Service) run(ctx context.Context, text string) Analysis {
	if err := s.EnsureReady(ctx); err != nil {
		return Analysis{Result: s.scorer.Fallback(text), Fallback: true, Cause: err}
	}

	result, err := s.score(ctx, text)
	if err != nil {
		failure := &InferenceFailure{Scorer: s.scorer.Name(), Err: err}
		s.log.WithError(err).Warn("analysis failed, using fallback heuristic")
		return Analysis{Result: s.scorer.Fallback(text), Fallback: true, Cause: failure}
	}
	return Analysis{Result: result}
}

func (s *Service) score(ctx context.Context, text string) (result scoring.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	result, err = s.scorer.Score(ctx, text)
	if err != nil {
		return scoring.Result{}, err
	}
	if math.IsNaN(result.OverallScore) {
		return scoring.Result{}, errors.New("score is NaN")
	}
	return result, nil
}
