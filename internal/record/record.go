// Package record defines the core domain types for reconstructed bibliography records.
package record

import "strings"

// EntryType is a BibTeX entry type. The set is closed; Misc is the fallback
// when classification matches no rule.
type EntryType string

const (
	Article       EntryType = "article"
	InProceedings EntryType = "inproceedings"
	Book          EntryType = "book"
	InCollection  EntryType = "incollection"
	PhDThesis     EntryType = "phdthesis"
	MastersThesis EntryType = "mastersthesis"
	TechReport    EntryType = "techreport"
	Misc          EntryType = "misc"
)

// Confidence records whether entry-type classification matched a strong or
// weak rule. Diagnostic only; never used for control flow.
type Confidence string

const (
	Certain   Confidence = "certain"
	Heuristic Confidence = "heuristic"
)

// Record represents one structured bibliography record reconstructed from a
// .bbl item. One Record per source block; immutable once classified.
type Record struct {
	// Key is the citation key, sanitized from the source label.
	// Unique within an emitted .bib file (the emitter disambiguates).
	Key string `json:"key"`

	// Type is the inferred BibTeX entry type.
	Type EntryType `json:"type"`

	// Fields maps BibTeX field names (author, title, journal, booktitle,
	// year, volume, number, pages, publisher, school, note, doi, url) to
	// extracted values. A key is present only if a value was extracted.
	Fields map[string]string `json:"fields"`

	// Confidence is the classification confidence.
	Confidence Confidence `json:"confidence"`
}

// Field returns the named field value, or "" if unset.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// SanitizeKey reduces a source citation label to the identifier charset
// BibTeX accepts: letters, digits, '-', '_', ':'. Disallowed runes are
// dropped. Returns "" if nothing survives.
func SanitizeKey(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == ':':
			b.WriteRune(r)
		}
	}
	return b.String()
}
