package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubScorer is a canned third method for classifier tests.
type stubScorer struct {
	score MethodScore
	err   error
	calls int
}

func (s *stubScorer) ScoreRecord(ctx context.Context, record *EmailRecord) (MethodScore, error) {
	s.calls++
	if s.err != nil {
		return MethodScore{}, s.err
	}
	return s.score, nil
}

func financeRecord() *EmailRecord {
	return &EmailRecord{
		Sender:   "statements@mybank.com",
		Receiver: "user@example.com",
		Subject:  "Your account statement is ready",
		Body:     formalBankBody,
		HasURL:   false,
	}
}

func disagreementRecord() *EmailRecord {
	// Keyword signals point at finance, the body's shape at technology.
	return &EmailRecord{
		Sender:   "alerts@bigbank.com",
		Receiver: "user@example.com",
		Subject:  "account payment statement",
		Body:     "hey :) btw cool gonna asap!!",
		HasURL:   true,
	}
}

func TestClassifyAgreement(t *testing.T) {
	c := NewClassifier(testRegistry(t), Weights{}, 0, nil, zap.NewNop())

	result := c.Classify(context.Background(), financeRecord())

	assert.Equal(t, "finance", result.AssignedDomain)
	assert.Equal(t, "finance", result.Method1Domain)
	assert.Equal(t, "finance", result.Method2Domain)
	assert.True(t, result.Agreement)
	assert.InDelta(t,
		result.Method1Score*DefaultMethod1Weight+result.Method2Score*DefaultMethod2Weight,
		result.CombinedScore, 1e-9)
	assert.GreaterOrEqual(t, result.CombinedScore, DefaultAgreementThreshold)
}

func TestClassifyDisagreementIsUnsure(t *testing.T) {
	c := NewClassifier(testRegistry(t), Weights{}, 0, nil, zap.NewNop())

	result := c.Classify(context.Background(), disagreementRecord())

	assert.Equal(t, DomainUnsure, result.AssignedDomain)
	assert.Equal(t, "finance", result.Method1Domain)
	assert.Equal(t, "technology", result.Method2Domain)
	assert.False(t, result.Agreement)
	assert.Zero(t, result.CombinedScore)
}

func TestClassifyNoSignalsIsUnsure(t *testing.T) {
	c := NewClassifier(testRegistry(t), Weights{}, 0, nil, zap.NewNop())

	result := c.Classify(context.Background(), &EmailRecord{
		Sender:   "someone@example.com",
		Receiver: "other@example.com",
		Subject:  "zzz qqq",
		Body:     "qqq www eee",
	})

	assert.Equal(t, DomainUnsure, result.AssignedDomain)
	assert.Empty(t, result.Method1Domain)
	assert.False(t, result.Agreement)
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(testRegistry(t), Weights{}, 0, nil, zap.NewNop())

	first := c.Classify(context.Background(), financeRecord())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(context.Background(), financeRecord()))
	}
}

func TestClassifyWeightsScaleInvariant(t *testing.T) {
	// Weights are normalized to sum 1.0, so scaling them changes nothing.
	a := NewClassifier(testRegistry(t), Weights{Method1: 0.6, Method2: 0.4}, 0, nil, zap.NewNop())
	b := NewClassifier(testRegistry(t), Weights{Method1: 6, Method2: 4}, 0, nil, zap.NewNop())

	assert.Equal(t,
		a.Classify(context.Background(), financeRecord()),
		b.Classify(context.Background(), financeRecord()))
}

func TestClassifyHighThresholdForcesUnsure(t *testing.T) {
	c := NewClassifier(testRegistry(t), Weights{}, 0.99, nil, zap.NewNop())

	result := c.Classify(context.Background(), financeRecord())

	assert.Equal(t, DomainUnsure, result.AssignedDomain)
	assert.True(t, result.Agreement)
	assert.Positive(t, result.CombinedScore)
}

func TestClassifyThirdMethodContribution(t *testing.T) {
	third := &stubScorer{score: MethodScore{
		Domain:     "finance",
		Confidence: 0.9,
		Scores:     map[string]float64{"finance": 0.9},
	}}
	weights := Weights{Method1: 0.35, Method2: 0.25, Method3: 0.40}
	c := NewClassifier(testRegistry(t), weights, 0, third, zap.NewNop())

	result := c.Classify(context.Background(), financeRecord())

	require.Equal(t, 1, third.calls)
	assert.Equal(t, "finance", result.AssignedDomain)
	assert.Equal(t, "finance", result.Method3Domain)
	assert.InDelta(t, 0.9, result.Method3Score, 1e-9)
	assert.InDelta(t,
		result.Method1Score*0.35+result.Method2Score*0.25+0.9*0.40,
		result.CombinedScore, 1e-9)
}

func TestClassifyThirdMethodConsultedUnderDefaultWeights(t *testing.T) {
	// Dual-method default weights carry a zero third weight; attaching a
	// third method must still consult it, under the tri-method defaults.
	third := &stubScorer{score: MethodScore{
		Domain:     "finance",
		Confidence: 0.9,
		Scores:     map[string]float64{"finance": 0.9},
	}}
	weights := Weights{Method1: DefaultMethod1Weight, Method2: DefaultMethod2Weight}
	c := NewClassifier(testRegistry(t), weights, 0, third, zap.NewNop())

	result := c.Classify(context.Background(), financeRecord())

	require.Equal(t, 1, third.calls)
	assert.Equal(t, "finance", result.AssignedDomain)
	assert.InDelta(t,
		result.Method1Score*DefaultTriMethod1Weight+
			result.Method2Score*DefaultTriMethod2Weight+
			0.9*DefaultTriMethod3Weight,
		result.CombinedScore, 1e-9)
}

func TestClassifyThirdMethodSkippedOnDisagreement(t *testing.T) {
	third := &stubScorer{score: MethodScore{Domain: "finance", Confidence: 0.9}}
	weights := Weights{Method1: 0.35, Method2: 0.25, Method3: 0.40}
	c := NewClassifier(testRegistry(t), weights, 0, third, zap.NewNop())

	result := c.Classify(context.Background(), disagreementRecord())

	assert.Equal(t, DomainUnsure, result.AssignedDomain)
	assert.Zero(t, third.calls)
}

func TestClassifyThirdMethodFailureDegradesToDual(t *testing.T) {
	third := &stubScorer{err: errors.New("provider unavailable")}
	weights := Weights{Method1: 0.35, Method2: 0.25, Method3: 0.40}
	c := NewClassifier(testRegistry(t), weights, 0, third, zap.NewNop())

	result := c.Classify(context.Background(), financeRecord())

	require.Equal(t, 1, third.calls)
	assert.Equal(t, "finance", result.AssignedDomain)
	assert.Empty(t, result.Method3Domain)

	// Dual weights renormalized from 0.35/0.25.
	w1 := 0.35 / 0.60
	w2 := 0.25 / 0.60
	assert.InDelta(t,
		result.Method1Score*w1+result.Method2Score*w2,
		result.CombinedScore, 1e-9)
}

func TestWeightsNormalized(t *testing.T) {
	w := Weights{Method1: 3, Method2: 2}.Normalized()
	assert.InDelta(t, 0.6, w.Method1, 1e-9)
	assert.InDelta(t, 0.4, w.Method2, 1e-9)
	assert.Zero(t, w.Method3)

	// Nothing positive falls back to the dual defaults.
	w = Weights{}.Normalized()
	assert.InDelta(t, DefaultMethod1Weight, w.Method1, 1e-9)
	assert.InDelta(t, DefaultMethod2Weight, w.Method2, 1e-9)

	w = Weights{Method1: -1, Method2: 1}.Normalized()
	assert.Zero(t, w.Method1)
	assert.InDelta(t, 1.0, w.Method2, 1e-9)
}
