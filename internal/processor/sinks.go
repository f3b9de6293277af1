package processor

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/core"
)

// Fixed sink file names. Per-domain sinks are named email_<domain>.csv and
// created lazily on first write.
const (
	invalidFileName = "invalid_emails.csv"
	skippedFileName = "skipped_emails.csv"
)

var classificationColumns = []string{"classified_domain", "method1_domain", "method2_domain"}
var detailColumns = []string{"method1_confidence", "method2_confidence", "agreement"}

// SinkSet manages the run's output CSV files: one lazily created file per
// assigned domain (plus "unsure"), and the fixed invalid/skipped files with
// their reason columns. Each file's header is written exactly once, on first
// use, and every opened file is closed on all exit paths of a run.
type SinkSet struct {
	dir              string
	classifiedFields []string
	inputFields      []string
	files            map[string]*os.File
	writers          map[string]*csv.Writer
	logger           *zap.Logger
}

// NewSinkSet prepares the output directory. Classified output columns are
// the standard set, then the classification columns, detail columns when
// requested, then any input extras; invalid and skipped rows keep the input
// column order plus their reason column.
func NewSinkSet(dir string, inputHeader []string, includeDetails bool, logger *zap.Logger) (*SinkSet, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	fields := make([]string, 0, len(standardColumns)+len(classificationColumns)+len(detailColumns)+len(inputHeader))
	fields = append(fields, standardColumns...)
	fields = append(fields, classificationColumns...)
	if includeDetails {
		fields = append(fields, detailColumns...)
	}
	for _, col := range inputHeader {
		if _, isAlias := columnAliases[col]; isAlias {
			continue
		}
		if !containsField(fields, col) {
			fields = append(fields, col)
		}
	}

	return &SinkSet{
		dir:              dir,
		classifiedFields: fields,
		inputFields:      append([]string(nil), inputHeader...),
		files:            make(map[string]*os.File),
		writers:          make(map[string]*csv.Writer),
		logger:           logger,
	}, nil
}

// WriteClassified routes a classified (or unsure) output row to its domain
// file.
func (s *SinkSet) WriteClassified(domain string, row map[string]string) error {
	filename := fmt.Sprintf("email_%s.csv", domain)
	return s.writeRow(domain, filename, s.classifiedFields, row)
}

// WriteInvalid appends a rejected input row with its rejection reason.
func (s *SinkSet) WriteInvalid(row map[string]string, reason string) error {
	out := copyRow(row)
	out["error_reason"] = reason
	fields := append(append([]string(nil), s.inputFields...), "error_reason")
	return s.writeRow("invalid", invalidFileName, fields, out)
}

// WriteSkipped appends a filtered input row with its skip reason. Skipping
// is a policy filter, distinct from validation failure.
func (s *SinkSet) WriteSkipped(row map[string]string, reason string) error {
	out := copyRow(row)
	out["skip_reason"] = reason
	fields := append(append([]string(nil), s.inputFields...), "skip_reason")
	return s.writeRow("skipped", skippedFileName, fields, out)
}

func (s *SinkSet) writeRow(key, filename string, fields []string, row map[string]string) error {
	w, ok := s.writers[key]
	if !ok {
		path := filepath.Join(s.dir, filename)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", path, err)
		}
		s.files[key] = f
		w = csv.NewWriter(f)
		s.writers[key] = w

		if err := w.Write(fields); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", path, err)
		}
		s.logger.Debug("Opened output sink", zap.String("file", path))
	}

	values := make([]string, len(fields))
	for i, name := range fields {
		values[i] = row[name]
	}
	if err := w.Write(values); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", filename, err)
	}
	w.Flush()
	return w.Error()
}

// Domains returns the domain sinks opened during the run, excluding the
// fixed invalid/skipped sinks and "unsure".
func (s *SinkSet) Domains() []string {
	var out []string
	for key := range s.writers {
		if key == "invalid" || key == "skipped" || key == core.DomainUnsure {
			continue
		}
		out = append(out, key)
	}
	return out
}

// Close flushes and closes every opened sink. It is safe to call after a
// partial run; the first error encountered is returned.
func (s *SinkSet) Close() error {
	var firstErr error
	for key, w := range s.writers {
		w.Flush()
		if err := w.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.files[key].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.writers = make(map[string]*csv.Writer)
	s.files = make(map[string]*os.File)
	return firstErr
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

func copyRow(row map[string]string) map[string]string {
	out := make(map[string]string, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	return out
}
