package bibtex

import (
	"os"
	"strings"
	"testing"

	"github.com/rebib/rebib/internal/record"
)

func TestRender_SingleStanza(t *testing.T) {
	rec := record.Record{
		Key:  "smith2020",
		Type: record.InProceedings,
		Fields: map[string]string{
			"author":    "J. Smith",
			"title":     "Title of Paper",
			"booktitle": "ICML",
			"pages":     "1--10",
			"year":      "2020",
		},
	}

	got := Render([]record.Record{rec})
	want := `@inproceedings{smith2020,
  author = {J. Smith},
  title = {Title of Paper},
  booktitle = {ICML},
  pages = {1--10},
  year = {2020}
}
`
	if got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_FieldOrderIsCanonical(t *testing.T) {
	rec := record.Record{
		Key:  "a",
		Type: record.Article,
		Fields: map[string]string{
			"year":    "1999",
			"journal": "Journal of Things",
			"author":  "Smith, J.",
			"volume":  "4",
			"title":   "A study",
		},
	}

	got := Render([]record.Record{rec})

	order := []string{"author =", "title =", "journal =", "volume =", "year ="}
	last := -1
	for _, marker := range order {
		i := strings.Index(got, marker)
		if i < 0 {
			t.Fatalf("missing %q in:\n%s", marker, got)
		}
		if i < last {
			t.Errorf("%q appears out of order in:\n%s", marker, got)
		}
		last = i
	}
	if !strings.Contains(got, "year = {1999}\n}\n") {
		t.Errorf("year is not the last field:\n%s", got)
	}
}

func TestRender_DuplicateKeys(t *testing.T) {
	recs := []record.Record{
		{Key: "x", Type: record.Misc, Fields: map[string]string{"title": "first"}},
		{Key: "x", Type: record.Misc, Fields: map[string]string{"title": "second"}},
		{Key: "x", Type: record.Misc, Fields: map[string]string{"title": "third"}},
	}

	got := Render(recs)

	for _, key := range []string{"@misc{x,", "@misc{xa,", "@misc{xb,"} {
		if !strings.Contains(got, key) {
			t.Errorf("Render() missing %q:\n%s", key, got)
		}
	}
	if strings.Count(got, "@misc{") != 3 {
		t.Errorf("Render() dropped a record:\n%s", got)
	}
}

func TestRender_DuplicateKeySkipsTakenCandidate(t *testing.T) {
	recs := []record.Record{
		{Key: "x", Type: record.Misc, Fields: map[string]string{"title": "one"}},
		{Key: "xa", Type: record.Misc, Fields: map[string]string{"title": "two"}},
		{Key: "x", Type: record.Misc, Fields: map[string]string{"title": "three"}},
	}

	got := Render(recs)

	if !strings.Contains(got, "@misc{xb,") {
		t.Errorf("collision with an existing xa should yield xb:\n%s", got)
	}
}

func TestRender_EmptyKeyFallsBack(t *testing.T) {
	got := Render([]record.Record{{Key: "", Type: record.Misc,
		Fields: map[string]string{"title": "anonymous"}}})
	if !strings.Contains(got, "@misc{unknown,") {
		t.Errorf("Render() = %q, want unknown key", got)
	}
}

func TestRender_BlankLineBetweenStanzas(t *testing.T) {
	recs := []record.Record{
		{Key: "a", Type: record.Misc, Fields: map[string]string{"title": "one"}},
		{Key: "b", Type: record.Misc, Fields: map[string]string{"title": "two"}},
	}

	got := Render(recs)

	if !strings.Contains(got, "}\n\n@misc{b,") {
		t.Errorf("stanzas not separated by one blank line:\n%s", got)
	}
	if !strings.HasSuffix(got, "}\n") {
		t.Errorf("missing trailing newline: %q", got)
	}
}

func TestRender_EscapesSpecialCharacters(t *testing.T) {
	rec := record.Record{
		Key:  "odd",
		Type: record.Misc,
		Fields: map[string]string{
			"title": "50% of {braces} & ampersands",
		},
	}

	got := Render([]record.Record{rec})

	if !strings.Contains(got, `title = {50\% of \{braces\} \& ampersands}`) {
		t.Errorf("special characters not escaped:\n%s", got)
	}
}

func TestRender_NoFields(t *testing.T) {
	got := Render([]record.Record{{Key: "bare", Type: record.Misc}})
	want := "@misc{bare,\n}\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestAlphaSuffix(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "a"},
		{2, "b"},
		{26, "z"},
		{27, "aa"},
		{28, "ab"},
	}
	for _, tt := range tests {
		if got := alphaSuffix(tt.n); got != tt.want {
			t.Errorf("alphaSuffix(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	recs := []record.Record{
		{
			Key:  "smith2020",
			Type: record.Article,
			Fields: map[string]string{
				"author":  "J. Smith",
				"title":   "A study of 50% of things",
				"journal": "Journal of Things",
				"year":    "2020",
			},
		},
		{
			Key:    "doe2021",
			Type:   record.Misc,
			Fields: map[string]string{"title": "Notes"},
		},
	}

	entries := Parse(Render(recs))

	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}
	if entries[0].Key != "smith2020" || entries[0].Type != "article" {
		t.Errorf("entry 0 = %s/%s", entries[0].Type, entries[0].Key)
	}
	if entries[0].Fields["title"] != "A study of 50% of things" {
		t.Errorf("title did not round-trip: %q", entries[0].Fields["title"])
	}
	if entries[1].Key != "doe2021" {
		t.Errorf("entry 1 key = %q", entries[1].Key)
	}
}

func TestIndexFile_MissingFile(t *testing.T) {
	idx, err := IndexFile(t.TempDir() + "/nope.bib")
	if err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	if len(idx.Keys) != 0 {
		t.Errorf("IndexFile() keys = %v, want none", idx.Keys)
	}
}

func TestIndexFile_ReadsKeys(t *testing.T) {
	path := t.TempDir() + "/refs.bib"
	content := Render([]record.Record{
		{Key: "a1", Type: record.Misc, Fields: map[string]string{"title": "t"}},
		{Key: "b2", Type: record.Book, Fields: map[string]string{"title": "u"}},
	})
	if err := AppendToFile(path, content); err != nil {
		t.Fatal(err)
	}

	idx, err := IndexFile(path)
	if err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	if !idx.Has("a1") || !idx.Has("b2") {
		t.Errorf("IndexFile() keys = %v, want a1 and b2", idx.Keys)
	}
	if idx.Has("c3") {
		t.Errorf("unexpected key c3")
	}
}

func TestAppendToFile_SeparatesWithBlankLine(t *testing.T) {
	path := t.TempDir() + "/refs.bib"

	first := RenderOne(record.Record{Key: "a", Type: record.Misc,
		Fields: map[string]string{"title": "one"}})
	second := RenderOne(record.Record{Key: "b", Type: record.Misc,
		Fields: map[string]string{"title": "two"}})

	if err := AppendToFile(path, first); err != nil {
		t.Fatal(err)
	}
	if err := AppendToFile(path, second); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "}\n\n@misc{b,") {
		t.Errorf("appended stanzas not separated:\n%s", data)
	}

	entries := Parse(string(data))
	if len(entries) != 2 {
		t.Errorf("Parse() after append = %d entries, want 2", len(entries))
	}
}
