package core

import (
	"context"
	"errors"
)

var (
	// ErrCacheNotFound is returned when a cache entry is not found.
	ErrCacheNotFound = errors.New("cache entry not found")
	// ErrCacheExpired is returned when a cache entry has expired.
	ErrCacheExpired = errors.New("cache entry expired")
)

// MethodScorer is the narrow interface through which the classifier consumes
// an additional classification method, such as an LLM-backed scorer. The
// built-in keyword and structural methods do not go through this interface
// because they are pure and never fail.
type MethodScorer interface {
	// ScoreRecord scores a record across the registry's domains.
	ScoreRecord(ctx context.Context, record *EmailRecord) (MethodScore, error)
}

// ResultCache stores third-method verdicts keyed by record fingerprint so
// that reprocessing a dataset does not re-invoke the provider for records it
// has already seen.
type ResultCache interface {
	// Get retrieves a cached entry for a fingerprint. It returns
	// ErrCacheNotFound for an unknown fingerprint and ErrCacheExpired for a
	// dead one; any other error is a backend failure.
	Get(ctx context.Context, fingerprint string) (*CacheEntry, error)

	// Set stores a cache entry.
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry.
	Delete(ctx context.Context, fingerprint string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}
