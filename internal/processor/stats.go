package processor

import (
	"time"
)

// Stats is the aggregate outcome of one processing run. It is owned
// exclusively by the Processor, updated exactly once per record, and handed
// out as a snapshot when the run ends. The counters always satisfy
// TotalProcessed == TotalClassified + TotalUnsure + TotalInvalid + TotalSkipped.
type Stats struct {
	TotalProcessed  int `json:"total_processed"`
	TotalClassified int `json:"total_classified"`
	TotalUnsure     int `json:"total_unsure"`
	TotalInvalid    int `json:"total_invalid"`
	TotalSkipped    int `json:"total_skipped"`

	// DomainCounts maps assigned domain (including "unsure") to record count.
	DomainCounts map[string]int `json:"domain_counts"`

	// ValidationCounts maps validation error code to occurrence count.
	// MalformedRows is the subset of TotalInvalid that never parsed as a row.
	ValidationCounts map[string]int `json:"validation_counts"`
	MalformedRows    int            `json:"malformed_rows"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewStats creates an empty stats record with the start time set.
func NewStats() *Stats {
	return &Stats{
		DomainCounts:     make(map[string]int),
		ValidationCounts: make(map[string]int),
		StartTime:        time.Now(),
	}
}

// Duration returns the wall-clock length of the run.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
