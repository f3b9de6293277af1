package core

import (
	"context"

	"go.uber.org/zap"
)

// Default method weights and agreement threshold. These are empirically
// chosen starting points, configurable per run, not correctness requirements.
const (
	DefaultMethod1Weight = 0.6
	DefaultMethod2Weight = 0.4

	// Defaults when a third method is enabled.
	DefaultTriMethod1Weight = 0.35
	DefaultTriMethod2Weight = 0.25
	DefaultTriMethod3Weight = 0.40

	DefaultAgreementThreshold = 0.15
)

// Weights holds the per-method combination weights.
type Weights struct {
	Method1 float64
	Method2 float64
	Method3 float64
}

// Normalized returns the weights scaled so they sum to 1.0. Non-positive
// weights are treated as zero; if nothing positive remains, the dual-method
// defaults are returned.
func (w Weights) Normalized() Weights {
	if w.Method1 < 0 {
		w.Method1 = 0
	}
	if w.Method2 < 0 {
		w.Method2 = 0
	}
	if w.Method3 < 0 {
		w.Method3 = 0
	}

	sum := w.Method1 + w.Method2 + w.Method3
	if sum <= 0 {
		return Weights{Method1: DefaultMethod1Weight, Method2: DefaultMethod2Weight}
	}
	return Weights{
		Method1: w.Method1 / sum,
		Method2: w.Method2 / sum,
		Method3: w.Method3 / sum,
	}
}

// Classifier combines the keyword taxonomy and structural template methods
// under a weighted-agreement rule, optionally consulting a third method. It
// is pure and deterministic given fixed weights, threshold and registry:
// identical input always yields identical output.
type Classifier struct {
	registry  *Registry
	method1   *KeywordScorer
	method2   *StructuralScorer
	method3   MethodScorer
	weights   Weights
	threshold float64
	logger    *zap.Logger
}

// NewClassifier creates a classifier over the registry. third may be nil,
// in which case its weight is redistributed across the two built-in methods.
// Attaching a third method without weighting it explicitly switches to the
// tri-method default weights, so an enabled third method is always consulted.
// Weights are normalized to sum 1.0 whatever the caller passes.
func NewClassifier(
	registry *Registry,
	weights Weights,
	threshold float64,
	third MethodScorer,
	logger *zap.Logger,
) *Classifier {
	if third == nil {
		weights.Method3 = 0
	} else if weights.Method3 <= 0 {
		weights = Weights{
			Method1: DefaultTriMethod1Weight,
			Method2: DefaultTriMethod2Weight,
			Method3: DefaultTriMethod3Weight,
		}
	}
	if threshold <= 0 {
		threshold = DefaultAgreementThreshold
	}
	return &Classifier{
		registry:  registry,
		method1:   NewKeywordScorer(registry),
		method2:   NewStructuralScorer(registry),
		method3:   third,
		weights:   weights.Normalized(),
		threshold: threshold,
		logger:    logger,
	}
}

// Classify runs every method across the registry and combines their top
// picks. The methods must agree on the top domain and the weighted combined
// score must reach the agreement threshold; otherwise the record is "unsure".
// A record always produces a result: "unsure" is a valid terminal outcome,
// never an error.
func (c *Classifier) Classify(ctx context.Context, record *EmailRecord) ClassificationResult {
	m1 := c.method1.Score(record)
	m2 := c.method2.Score(record)

	result := ClassificationResult{
		AssignedDomain: DomainUnsure,
		Method1Domain:  m1.Domain,
		Method2Domain:  m2.Domain,
		Method1Score:   m1.Confidence,
		Method2Score:   m2.Confidence,
	}

	if m1.Domain == "" || m2.Domain == "" || m1.Domain != m2.Domain {
		return result
	}
	result.Agreement = true

	w := c.weights
	combined := m1.Confidence*w.Method1 + m2.Confidence*w.Method2

	// The third method is consulted only once the built-in methods agree;
	// its score for the agreed domain sharpens or weakens the combination.
	// A provider failure degrades to the dual-method combination.
	if c.method3 != nil && w.Method3 > 0 {
		m3, err := c.method3.ScoreRecord(ctx, record)
		if err != nil {
			c.logger.Warn("Third method failed, falling back to dual-method scoring",
				zap.Error(err),
				zap.String("sender", record.Sender))
			w = Weights{Method1: w.Method1, Method2: w.Method2}.Normalized()
			combined = m1.Confidence*w.Method1 + m2.Confidence*w.Method2
		} else {
			result.Method3Domain = m3.Domain
			result.Method3Score = m3.Confidence
			combined += m3.Scores[m1.Domain] * w.Method3
		}
	}

	result.CombinedScore = combined
	if combined >= c.threshold {
		result.AssignedDomain = m1.Domain
	}
	return result
}
