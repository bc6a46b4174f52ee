package bibtex

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// Entry is a reparsed BibTeX stanza.
type Entry struct {
	Type   string
	Key    string
	Fields map[string]string
}

// Index records the citation keys present in existing BibTeX text, used to
// skip duplicates when appending to a .bib file.
type Index struct {
	Keys map[string]bool
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{Keys: make(map[string]bool)}
}

// Has returns true if the key already exists in the index.
func (idx *Index) Has(key string) bool {
	return idx.Keys[key]
}

// Add records a key.
func (idx *Index) Add(key string) {
	idx.Keys[key] = true
}

var (
	entryStartRe = regexp.MustCompile(`@(\w+)\s*\{\s*([^,\s]+)\s*,`)
	fieldRe      = regexp.MustCompile(`^\s*(\w+)\s*=\s*\{(.*?)\},?\s*$`)
)

// IndexFile builds a key index from an existing .bib file. A missing file
// yields an empty index, not an error.
func IndexFile(path string) (*Index, error) {
	idx := NewIndex()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := entryStartRe.FindStringSubmatch(scanner.Text()); m != nil {
			idx.Add(m[2])
		}
	}
	return idx, scanner.Err()
}

// Parse reads stanzas out of rendered BibTeX text. It understands the
// line-oriented shape this package emits (one `field = {value}` per line)
// and is used for append deduplication and round-trip checks, not as a
// general BibTeX parser.
func Parse(text string) []Entry {
	var entries []Entry
	var cur *Entry

	for _, line := range strings.Split(text, "\n") {
		if m := entryStartRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				entries = append(entries, *cur)
			}
			cur = &Entry{Type: m[1], Key: m[2], Fields: make(map[string]string)}
			continue
		}
		if cur == nil {
			continue
		}
		if m := fieldRe.FindStringSubmatch(line); m != nil {
			cur.Fields[m[1]] = unescapeValue(m[2])
			continue
		}
		if strings.TrimSpace(line) == "}" {
			entries = append(entries, *cur)
			cur = nil
		}
	}
	if cur != nil {
		entries = append(entries, *cur)
	}
	return entries
}

func unescapeValue(s string) string {
	replacer := strings.NewReplacer(
		`\{`, "{",
		`\}`, "}",
		`\%`, "%",
		`\&`, "&",
	)
	return replacer.Replace(s)
}

// AppendToFile appends BibTeX content to a file, creating it if needed and
// keeping a blank line between the existing content and the new stanzas.
func AppendToFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > 0 {
		content = "\n" + content
	}
	_, err = f.WriteString(content)
	return err
}
