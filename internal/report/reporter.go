// Package report renders run statistics for human and machine consumers.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/montimage/email-domain-classifier/internal/processor"
)

// Reporter formats a run statistics snapshot. It never mutates the stats.
type Reporter struct{}

// NewReporter creates a new Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// JSON renders the statistics as indented JSON.
func (r *Reporter) JSON(stats *processor.Stats) ([]byte, error) {
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats: %w", err)
	}
	return out, nil
}

// Text renders a plain-text summary of the run.
func (r *Reporter) Text(stats *processor.Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Classification Summary ===\n")
	fmt.Fprintf(&b, "Duration:         %s\n", stats.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "Total processed:  %d\n", stats.TotalProcessed)
	fmt.Fprintf(&b, "Total classified: %d\n", stats.TotalClassified)
	fmt.Fprintf(&b, "Total unsure:     %d\n", stats.TotalUnsure)
	fmt.Fprintf(&b, "Total invalid:    %d\n", stats.TotalInvalid)
	fmt.Fprintf(&b, "Total skipped:    %d\n", stats.TotalSkipped)

	if len(stats.DomainCounts) > 0 {
		fmt.Fprintf(&b, "\nPer-domain counts:\n")
		domains := make([]string, 0, len(stats.DomainCounts))
		for d := range stats.DomainCounts {
			domains = append(domains, d)
		}
		sort.Strings(domains)
		for _, d := range domains {
			fmt.Fprintf(&b, "  %-20s %d\n", d, stats.DomainCounts[d])
		}
	}

	if len(stats.ValidationCounts) > 0 {
		fmt.Fprintf(&b, "\nValidation failures:\n")
		codes := make([]string, 0, len(stats.ValidationCounts))
		for c := range stats.ValidationCounts {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		for _, c := range codes {
			fmt.Fprintf(&b, "  %-25s %d\n", c, stats.ValidationCounts[c])
		}
	}
	if stats.MalformedRows > 0 {
		fmt.Fprintf(&b, "\nMalformed CSV rows: %d\n", stats.MalformedRows)
	}

	return b.String()
}
