// Package bibtex renders structured records into BibTeX database syntax
// and provides a minimal reparser for deduplicating against existing files.
package bibtex

import (
	"fmt"
	"strings"

	"github.com/rebib/rebib/internal/record"
)

// fieldOrder is the canonical emission order. Year goes last so stanzas
// stay deterministic and diffable across styles.
var fieldOrder = []string{
	"author", "title",
	"journal", "booktitle",
	"volume", "number", "pages",
	"publisher", "school", "note",
	"doi", "url",
	"year",
}

// Render emits one stanza per record, separated by single blank lines,
// with a trailing newline. Duplicate keys are disambiguated by appending
// a, b, ... in first-seen order; no record is ever dropped.
func Render(records []record.Record) string {
	var b strings.Builder
	seen := make(map[string]int)

	for i, rec := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		key := uniqueKey(seen, rec.Key)
		writeStanza(&b, rec, key)
	}

	return b.String()
}

// RenderOne emits a single stanza without deduplication.
func RenderOne(rec record.Record) string {
	var b strings.Builder
	writeStanza(&b, rec, rec.Key)
	return b.String()
}

func writeStanza(b *strings.Builder, rec record.Record, key string) {
	fmt.Fprintf(b, "@%s{%s,\n", rec.Type, key)

	var lines []string
	for _, name := range fieldOrder {
		if v := rec.Fields[name]; v != "" {
			lines = append(lines, fmt.Sprintf("  %s = {%s}", name, escapeValue(v)))
		}
	}
	b.WriteString(strings.Join(lines, ",\n"))
	if len(lines) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

// uniqueKey returns key unchanged on first sight and key+"a", key+"b", ...
// on collisions, skipping candidates that collide themselves.
func uniqueKey(seen map[string]int, key string) string {
	if key == "" {
		key = "unknown"
	}
	n, taken := seen[key]
	if !taken {
		seen[key] = 0
		return key
	}
	for {
		n++
		candidate := key + alphaSuffix(n)
		if _, clash := seen[candidate]; !clash {
			seen[key] = n
			seen[candidate] = 0
			return candidate
		}
	}
}

// alphaSuffix maps 1, 2, ... to a, b, ..., z, aa, ab, ...
func alphaSuffix(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// escapeValue escapes the characters that would break BibTeX syntax inside
// a braced field value. Normalized values carry no markup, so plain
// backslash-escaping keeps the output valid.
func escapeValue(s string) string {
	replacer := strings.NewReplacer(
		"\\", "",
		"{", `\{`,
		"}", `\}`,
		"%", `\%`,
		"&", `\&`,
	)
	return replacer.Replace(s)
}
