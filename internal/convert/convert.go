// Package convert sequences the .bbl-to-BibTeX pipeline: tokenize,
// normalize, extract, classify, emit. Per-block irregularities are
// absorbed into the report; only empty and oversized input are fatal.
package convert

import (
	"errors"
	"fmt"

	"github.com/rebib/rebib/internal/bbl"
	"github.com/rebib/rebib/internal/bibtex"
	"github.com/rebib/rebib/internal/classify"
	"github.com/rebib/rebib/internal/extract"
	"github.com/rebib/rebib/internal/record"
)

// DefaultMaxInputBytes is the size guard applied when the caller does not
// configure one. Real bibliographies run to hundreds of kilobytes at most.
const DefaultMaxInputBytes = 8 << 20

// ErrEmptyInput means the input contained no recognizable bibliography
// marker; no output is produced.
var ErrEmptyInput = errors.New("no bibliography items found in input")

// ErrOversizedInput means the input exceeded the configured size guard.
var ErrOversizedInput = errors.New("input exceeds maximum size")

// Options configure one conversion. The zero value applies the defaults.
type Options struct {
	// MaxInputBytes rejects larger inputs before processing.
	// 0 applies DefaultMaxInputBytes; negative disables the guard.
	MaxInputBytes int
	// ExtraVenueCues extends the extractor's journal cue table.
	ExtraVenueCues []string
}

// Report aggregates per-conversion diagnostics for the caller to surface.
type Report struct {
	TotalBlocks   int            `json:"total_blocks"`
	Skipped       int            `json:"skipped"`
	ByType        map[string]int `json:"by_type"`
	LowConfidence int            `json:"low_confidence"`
}

// Records runs the pipeline and returns the structured records in source
// order, before emission.
func Records(raw string, opts Options) ([]record.Record, *Report, error) {
	limit := opts.MaxInputBytes
	if limit == 0 {
		limit = DefaultMaxInputBytes
	}
	if limit > 0 && len(raw) > limit {
		return nil, nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrOversizedInput, len(raw), limit)
	}

	split := bbl.Split(raw)
	if len(split.Blocks) == 0 {
		// PDF-extracted reference sections carry no \bibitem markers;
		// fall back to rendered [n] markers before giving up.
		split = bbl.SplitNumbered(raw)
	}
	if len(split.Blocks) == 0 {
		return nil, nil, ErrEmptyInput
	}

	report := &Report{
		TotalBlocks: len(split.Blocks) + split.Skipped,
		Skipped:     split.Skipped,
		ByType:      make(map[string]int),
	}

	records := make([]record.Record, 0, len(split.Blocks))
	for _, block := range split.Blocks {
		rec := convertBlock(block, opts)
		report.ByType[string(rec.Type)]++
		if rec.Confidence == record.Heuristic {
			report.LowConfidence++
		}
		records = append(records, rec)
	}

	return records, report, nil
}

// Convert runs the full pipeline and renders the resulting .bib text.
func Convert(raw string, opts Options) (string, *Report, error) {
	records, report, err := Records(raw, opts)
	if err != nil {
		return "", nil, err
	}
	return bibtex.Render(records), report, nil
}

func convertBlock(block bbl.Block, opts Options) record.Record {
	plain := bbl.Normalize(block.Raw)

	res := extract.Fields(plain, extract.Options{
		EmphasizedSpans: bbl.EmphasizedSpans(block.Raw),
		ExtraVenueCues:  opts.ExtraVenueCues,
	})

	entryType, confidence := classify.Classify(plain, res.Fields)

	// A block with neither author nor title is a soft failure: keep
	// whatever was recovered, degrade to misc, and let the report count
	// it. Never abort the batch.
	if res.Fields["author"] == "" && res.Fields["title"] == "" {
		entryType = record.Misc
		confidence = record.Heuristic
	}

	key := record.SanitizeKey(block.Label)
	if key == "" {
		key = "unknown"
	}

	return record.Record{
		Key:        key,
		Type:       entryType,
		Fields:     res.Fields,
		Confidence: confidence,
	}
}

// Summary renders the report as a one-line human-readable digest.
func (r *Report) Summary() string {
	converted := r.TotalBlocks - r.Skipped
	s := fmt.Sprintf("%d entries converted", converted)
	if r.LowConfidence > 0 {
		s += fmt.Sprintf(", %d low-confidence", r.LowConfidence)
	}
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	return s
}
