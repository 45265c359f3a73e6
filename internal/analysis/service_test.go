package analysis

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/legitscore/internal/model"
	"github.com/vijay-prabhu/legitscore/internal/scoring"
	"github.com/vijay-prabhu/legitscore/internal/sentiment"
)

// fakeScorer scores everything 80 unless configured to fail
type fakeScorer struct {
	initCalls  atomic.Int32
	scoreCalls atomic.Int32
	initDelay  time.Duration
	initErr    error
	scoreErr   error
	panicScore bool
	nanScore   bool
}

func (f *fakeScorer) Name() string { return "fake" }

func (f *fakeScorer) Initialize(ctx context.Context) error {
	f.initCalls.Add(1)
	time.Sleep(f.initDelay)
	return f.initErr
}

func (f *fakeScorer) Score(ctx context.Context, text string) (scoring.Result, error) {
	f.scoreCalls.Add(1)
	if f.panicScore {
		panic("index out of range")
	}
	if f.nanScore {
		return scoring.Result{OverallScore: math.NaN()}, nil
	}
	if f.scoreErr != nil {
		return scoring.Result{}, f.scoreErr
	}
	return scoring.NewResult(80, nil, []string{"primary"}), nil
}

func (f *fakeScorer) Fallback(text string) scoring.Result {
	return scoring.NewResult(30, []string{"fallback"}, nil)
}

func newQuietService(scorer scoring.Scorer) (*Service, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return NewService(scorer, WithLogger(log)), hook
}

func TestService_AnalyzePrimary(t *testing.T) {
	f := &fakeScorer{}
	svc, _ := newQuietService(f)
	assert.Equal(t, StatePending, svc.State())

	a := svc.Inspect(context.Background(), "posting")
	assert.False(t, a.Fallback)
	assert.NoError(t, a.Cause)
	assert.Equal(t, "fake", a.Model)
	assert.Equal(t, 80.0, a.Result.OverallScore)
	assert.Equal(t, StateReady, svc.State())
}

func TestService_InitializesOnce(t *testing.T) {
	f := &fakeScorer{initDelay: 50 * time.Millisecond}
	svc, _ := newQuietService(f)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.EnsureReady(context.Background()))
		}()
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		svc.Analyze(context.Background(), "posting")
	}
	assert.Equal(t, int32(1), f.initCalls.Load())
	assert.Equal(t, int32(5), f.scoreCalls.Load())
}

func TestService_InitializationFailurePinsFallback(t *testing.T) {
	boom := errors.New("encoder download failed")
	f := &fakeScorer{initErr: boom}
	svc, hook := newQuietService(f)

	err := svc.EnsureReady(context.Background())
	var initErr *InitializationFailure
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "fake", initErr.Scorer)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, svc.State())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	for i := 0; i < 3; i++ {
		a := svc.Inspect(context.Background(), "posting")
		assert.True(t, a.Fallback)
		assert.Equal(t, 30.0, a.Result.OverallScore)
		assert.ErrorAs(t, a.Cause, &initErr)
	}
	assert.Equal(t, int32(1), f.initCalls.Load())
	assert.Equal(t, int32(0), f.scoreCalls.Load())
}

func TestService_InferenceFailureFallsBackPerCall(t *testing.T) {
	tests := []struct {
		name   string
		scorer *fakeScorer
	}{
		{"error", &fakeScorer{scoreErr: errors.New("tensor shape mismatch")}},
		{"panic", &fakeScorer{panicScore: true}},
		{"nan", &fakeScorer{nanScore: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newQuietService(tt.scorer)

			a := svc.Inspect(context.Background(), "posting")
			assert.True(t, a.Fallback)
			assert.Equal(t, []string{"fallback"}, a.Result.RiskFactors)

			var inf *InferenceFailure
			assert.ErrorAs(t, a.Cause, &inf)
			assert.Equal(t, StateReady, svc.State())

			// Analyze itself never surfaces the failure
			r := svc.Analyze(context.Background(), "posting")
			assert.Equal(t, 30.0, r.OverallScore)
			assert.False(t, r.IsLegitimate)
		})
	}
}

func TestService_CancelledCallerDoesNotPinFailure(t *testing.T) {
	svc, _ := newQuietService(scoring.NewSequenceScorer(model.DefaultConfig(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.EnsureReady(ctx))
	assert.Equal(t, StateReady, svc.State())
}

func TestService_RealScorersIdempotent(t *testing.T) {
	services := []*Service{
		NewService(scoring.NewSentimentScorer(sentiment.NewLexicon())),
		NewService(scoring.NewSequenceScorer(model.DefaultConfig(), nil)),
	}

	texts := []string{
		"",
		"Quick cash opportunity! Earn $100 per hour from home. No experience required.",
		"Senior Software Engineer at Microsoft. Competitive salary plus comprehensive benefits.",
	}

	for _, svc := range services {
		for _, text := range texts {
			first := svc.Analyze(context.Background(), text)
			second := svc.Analyze(context.Background(), text)
			assert.Equal(t, first, second, "%s: %q", svc.Name(), text)
			assert.Equal(t, first.OverallScore > 50, first.IsLegitimate)
		}
		assert.Equal(t, StateReady, svc.State())
	}
}

func TestFailureMessages(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, "sequence: initialization failed: boom", (&InitializationFailure{Scorer: "sequence", Err: cause}).Error())
	assert.Equal(t, "sentiment: inference failed: boom", (&InferenceFailure{Scorer: "sentiment", Err: cause}).Error())
}
