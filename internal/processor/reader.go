package processor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/montimage/email-domain-classifier/internal/core"
)

// Standard output columns, always first and in this order.
var standardColumns = []string{"sender", "receiver", "date", "subject", "body", "urls", "label"}

// Input column aliases normalized away before validation so downstream
// components never see naming variants.
var columnAliases = map[string]string{
	"timestamp": "date",
	"has_url":   "urls",
}

// RawRecord is one input row before normalization. Record is the 1-based
// record number after the header; quoted bodies can span several file lines,
// so it is not a line number. Err is set for rows the CSV layer could not
// parse (wrong column count, bad quoting); such rows are routed to the
// invalid sink rather than dropped.
type RawRecord struct {
	Row    map[string]string
	Record int
	Err    error
}

// Reader streams CSV rows in bounded chunks so memory use is O(chunk size)
// regardless of input size.
type Reader struct {
	csv       *csv.Reader
	header    []string
	chunkSize int
	record    int
}

// NewReader wraps r, reading its header row immediately.
func NewReader(r io.Reader, chunkSize int) (*Reader, error) {
	cr := csv.NewReader(r)
	// Some datasets carry multi-line bodies with loose quoting.
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &Reader{
		csv:       cr,
		header:    header,
		chunkSize: chunkSize,
	}, nil
}

// Header returns the input column names in file order.
func (r *Reader) Header() []string {
	out := make([]string, len(r.header))
	copy(out, r.header)
	return out
}

// Chunk reads up to chunkSize rows. It returns io.EOF once the input is
// exhausted. Unparseable rows are returned with Err set instead of
// terminating the stream.
func (r *Reader) Chunk() ([]RawRecord, error) {
	chunk := make([]RawRecord, 0, r.chunkSize)

	for len(chunk) < r.chunkSize {
		fields, err := r.csv.Read()
		if err == io.EOF {
			break
		}
		r.record++

		if err != nil {
			chunk = append(chunk, RawRecord{Record: r.record, Err: err})
			continue
		}

		row := make(map[string]string, len(r.header))
		for i, name := range r.header {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		chunk = append(chunk, RawRecord{Row: row, Record: r.record})
	}

	if len(chunk) == 0 {
		return nil, io.EOF
	}
	return chunk, nil
}

// parseBoolish coerces the accepted url-flag spellings to a boolean.
// Anything unrecognized is false.
func parseBoolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// NormalizeRow maps input column aliases to the standard names and coerces
// the urls flag to canonical "true"/"false". Extra columns pass through
// untouched. Normalization happens once per record, before validation.
func NormalizeRow(row map[string]string) map[string]string {
	normalized := make(map[string]string, len(row)+2)

	for _, col := range standardColumns {
		value, ok := row[col]
		if !ok {
			for alias, target := range columnAliases {
				if target == col {
					value = row[alias]
				}
			}
		}
		normalized[col] = value
	}
	normalized["urls"] = fmt.Sprintf("%t", parseBoolish(normalized["urls"]))

	for col, val := range row {
		if _, isAlias := columnAliases[col]; isAlias {
			continue
		}
		if _, ok := normalized[col]; !ok {
			normalized[col] = val
		}
	}

	return normalized
}

// RecordFromRow builds the immutable EmailRecord a normalized row describes.
func RecordFromRow(row map[string]string) *core.EmailRecord {
	record := &core.EmailRecord{
		Sender:   strings.TrimSpace(row["sender"]),
		Receiver: strings.TrimSpace(row["receiver"]),
		Date:     strings.TrimSpace(row["date"]),
		Subject:  strings.TrimSpace(row["subject"]),
		Body:     strings.TrimSpace(row["body"]),
		HasURL:   parseBoolish(row["urls"]),
	}

	for col, val := range row {
		if isStandardColumn(col) {
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		record.Extra[col] = val
	}

	return record
}

func isStandardColumn(name string) bool {
	for _, col := range standardColumns {
		if col == name {
			return true
		}
	}
	return false
}
