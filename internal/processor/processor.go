package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/routing"
)

// DefaultChunkSize bounds how many records are held in memory at once.
const DefaultChunkSize = 1000

// SkipReasonBodyTooLong marks records filtered by the max body length policy.
const SkipReasonBodyTooLong = "body_too_long"

// ErrStrictValidation is returned when strict validation mode encounters its
// first invalid record. The stats returned alongside it cover every record
// processed up to that point.
var ErrStrictValidation = errors.New("strict validation failure")

// Options is the processing policy for one run.
type Options struct {
	ChunkSize        int
	MaxBodyLength    int
	StrictValidation bool
	IncludeDetails   bool
}

// Processor streams an input CSV through validation, classification and
// routing, one bounded chunk at a time. Chunks are processed strictly in
// input order and records strictly in read order, so counters and output
// row order are reproducible given the same input. Every input record ends
// up in exactly one of: a domain sink, unsure, invalid, skipped, or a
// reported abort.
type Processor struct {
	classifier *core.Classifier
	validator  *core.Validator
	overrides  *routing.Overrides
	opts       Options
	logger     *zap.Logger
}

// New creates a processor. A non-positive chunk size falls back to the
// default; a max body length of zero disables the skip filter.
func New(
	classifier *core.Classifier,
	validator *core.Validator,
	overrides *routing.Overrides,
	opts Options,
	logger *zap.Logger,
) *Processor {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Processor{
		classifier: classifier,
		validator:  validator,
		overrides:  overrides,
		opts:       opts,
		logger:     logger,
	}
}

// Process reads inputPath chunk by chunk and writes routed records under
// outputDir. It always returns the statistics accumulated so far, even when
// aborting under strict validation.
func (p *Processor) Process(ctx context.Context, inputPath, outputDir string) (*Stats, error) {
	stats := NewStats()

	f, err := os.Open(inputPath)
	if err != nil {
		return stats, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	reader, err := NewReader(f, p.opts.ChunkSize)
	if err != nil {
		return stats, err
	}

	sinks, err := NewSinkSet(outputDir, reader.Header(), p.opts.IncludeDetails, p.logger)
	if err != nil {
		return stats, err
	}

	p.logger.Info("Starting processing",
		zap.String("input", inputPath),
		zap.String("output_dir", outputDir),
		zap.Int("chunk_size", p.opts.ChunkSize),
		zap.Bool("strict_validation", p.opts.StrictValidation))

	chunks := 0
	for {
		if err := ctx.Err(); err != nil {
			stats.EndTime = time.Now()
			return stats, errors.Join(err, sinks.Close())
		}

		chunk, err := reader.Chunk()
		if err == io.EOF {
			break
		}

		for i := range chunk {
			if err := p.processRecord(ctx, &chunk[i], sinks, stats); err != nil {
				stats.EndTime = time.Now()
				return stats, errors.Join(err, sinks.Close())
			}
		}

		chunks++
		p.logger.Info("Processed chunk",
			zap.Int("chunk", chunks),
			zap.Int("records", stats.TotalProcessed))
	}

	if err := sinks.Close(); err != nil {
		stats.EndTime = time.Now()
		return stats, fmt.Errorf("failed to close output sinks: %w", err)
	}

	stats.EndTime = time.Now()
	p.logSummary(stats)
	return stats, nil
}

// processRecord runs the per-record pipeline: normalize, validate, apply the
// skip policy, classify, route. A non-nil return aborts the whole run.
func (p *Processor) processRecord(ctx context.Context, raw *RawRecord, sinks *SinkSet, stats *Stats) error {
	if raw.Err != nil {
		// Malformed rows never reach validation; they are counted as
		// invalid and the run continues, even in strict mode.
		stats.TotalProcessed++
		stats.TotalInvalid++
		stats.MalformedRows++
		p.logger.Warn("Malformed CSV row",
			zap.Int("record", raw.Record),
			zap.Error(raw.Err))
		row := raw.Row
		if row == nil {
			row = map[string]string{}
		}
		return sinks.WriteInvalid(row, "malformed_row: "+raw.Err.Error())
	}

	normalized := NormalizeRow(raw.Row)
	record := RecordFromRow(normalized)

	if verr := p.validator.Validate(record); verr != nil {
		stats.TotalProcessed++
		stats.TotalInvalid++
		var vErr *core.ValidationError
		if errors.As(verr, &vErr) {
			for _, code := range vErr.Codes {
				stats.ValidationCounts[code]++
			}
		}
		if err := sinks.WriteInvalid(raw.Row, verr.Error()); err != nil {
			return err
		}
		if p.opts.StrictValidation {
			return fmt.Errorf("%w: record %d: %s", ErrStrictValidation, raw.Record, verr)
		}
		return nil
	}

	if p.opts.MaxBodyLength > 0 && len(record.Body) > p.opts.MaxBodyLength {
		stats.TotalProcessed++
		stats.TotalSkipped++
		p.logger.Debug("Skipped record over body length limit",
			zap.Int("record", raw.Record),
			zap.Int("body_length", len(record.Body)),
			zap.Int("limit", p.opts.MaxBodyLength))
		return sinks.WriteSkipped(raw.Row, SkipReasonBodyTooLong)
	}

	var result core.ClassificationResult
	if domain, ok := p.overrides.Lookup(record.Sender); ok {
		result = core.ClassificationResult{
			AssignedDomain: domain,
			Method1Domain:  domain,
			Method2Domain:  domain,
			Method1Score:   1.0,
			Method2Score:   1.0,
			CombinedScore:  1.0,
			Agreement:      true,
		}
	} else {
		result = p.classifier.Classify(ctx, record)
	}

	if err := sinks.WriteClassified(result.AssignedDomain, p.outputRow(normalized, result)); err != nil {
		return err
	}

	stats.TotalProcessed++
	stats.DomainCounts[result.AssignedDomain]++
	if result.AssignedDomain != core.DomainUnsure {
		stats.TotalClassified++
	} else {
		stats.TotalUnsure++
	}
	return nil
}

// outputRow enriches a normalized row with the classification columns.
func (p *Processor) outputRow(normalized map[string]string, result core.ClassificationResult) map[string]string {
	out := copyRow(normalized)
	out["classified_domain"] = result.AssignedDomain
	out["method1_domain"] = orNone(result.Method1Domain)
	out["method2_domain"] = orNone(result.Method2Domain)

	if p.opts.IncludeDetails {
		out["method1_confidence"] = strconv.FormatFloat(result.Method1Score, 'f', 4, 64)
		out["method2_confidence"] = strconv.FormatFloat(result.Method2Score, 'f', 4, 64)
		out["agreement"] = strconv.FormatBool(result.Agreement)
	}
	return out
}

func (p *Processor) logSummary(stats *Stats) {
	p.logger.Info("Processing complete",
		zap.Duration("duration", stats.Duration()),
		zap.Int("total_processed", stats.TotalProcessed),
		zap.Int("total_classified", stats.TotalClassified),
		zap.Int("total_unsure", stats.TotalUnsure),
		zap.Int("total_invalid", stats.TotalInvalid),
		zap.Int("total_skipped", stats.TotalSkipped))
}

func orNone(domain string) string {
	if domain == "" {
		return "none"
	}
	return domain
}
