package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Fingerprint derives a stable cache key from the fields that determine a
// record's classification.
func Fingerprint(record *EmailRecord) string {
	h := sha256.New()
	h.Write([]byte(record.Sender))
	h.Write([]byte{0})
	h.Write([]byte(record.Subject))
	h.Write([]byte{0})
	h.Write([]byte(record.Body))
	return hex.EncodeToString(h.Sum(nil))
}

// CachedScorer wraps a MethodScorer with a ResultCache so reprocessing a
// dataset does not re-invoke the underlying provider for records it has
// already scored. Cache failures are logged, never fatal.
type CachedScorer struct {
	scorer MethodScorer
	cache  ResultCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedScorer wraps scorer with cache. Entries expire after ttl.
func NewCachedScorer(scorer MethodScorer, cache ResultCache, ttl time.Duration, logger *zap.Logger) *CachedScorer {
	return &CachedScorer{
		scorer: scorer,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Stop stops the underlying cache's background maintenance, when it has any.
func (s *CachedScorer) Stop() {
	if stopper, ok := s.cache.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}

// Close releases the wrapped scorer's resources, when it holds any.
func (s *CachedScorer) Close() error {
	if closer, ok := s.scorer.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// ScoreRecord returns the cached verdict for the record's fingerprint when
// present, otherwise delegates to the wrapped scorer and stores the result.
func (s *CachedScorer) ScoreRecord(ctx context.Context, record *EmailRecord) (MethodScore, error) {
	fingerprint := Fingerprint(record)

	entry, err := s.cache.Get(ctx, fingerprint)
	if err == nil {
		s.logger.Debug("Cache hit for record", zap.String("fingerprint", fingerprint))
		score := MethodScore{
			Domain:     entry.Domain,
			Confidence: entry.Confidence,
			Scores:     map[string]float64{},
		}
		if entry.Domain != "" {
			score.Scores[entry.Domain] = entry.Confidence
		}
		return score, nil
	}
	if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheExpired) {
		// A backend failure is not a miss; report it, then score anyway.
		s.logger.Warn("Result cache lookup failed", zap.Error(err))
	}

	score, err := s.scorer.ScoreRecord(ctx, record)
	if err != nil {
		return MethodScore{}, err
	}

	now := time.Now()
	entry = &CacheEntry{
		Fingerprint: fingerprint,
		Domain:      score.Domain,
		Confidence:  score.Confidence,
		LastSeen:    now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.logger.Error("Failed to update result cache", zap.Error(err))
	}

	return score, nil
}
