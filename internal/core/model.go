package core

import (
	"time"
)

// DomainUnsure is the sentinel assigned when the classification methods
// disagree or the combined score falls below the agreement threshold.
const DomainUnsure = "unsure"

// EmailRecord represents one email after column normalization. Records are
// immutable once read; one record maps to exactly one classification outcome.
type EmailRecord struct {
	Sender   string
	Receiver string
	Date     string
	Subject  string
	Body     string
	HasURL   bool
	// Extra holds pass-through columns from the input that are not part of
	// the standard set. The label column stays in the row map; classification
	// never reads it.
	Extra map[string]string
}

// MethodScore is the outcome of a single classification method across all
// registered domains. Domain is empty when the method could not pick a
// winner; Scores holds the normalized per-domain scores.
type MethodScore struct {
	Domain     string
	Confidence float64
	Scores     map[string]float64
}

// ClassificationResult represents the final outcome for one record. It is
// created once per record and never mutated.
type ClassificationResult struct {
	AssignedDomain string
	Method1Domain  string
	Method2Domain  string
	Method3Domain  string
	Method1Score   float64
	Method2Score   float64
	Method3Score   float64
	CombinedScore  float64
	Agreement      bool
}

// CacheEntry is a cached third-method verdict for a record fingerprint.
type CacheEntry struct {
	Fingerprint string
	Domain      string
	Confidence  float64
	LastSeen    time.Time
	ExpiresAt   time.Time
}
