// Package classify infers the BibTeX entry type of a bibliography item.
//
// Bibliography styles encode the type implicitly through phrasing ("In
// Proceedings of ..." for conference papers, "PhD thesis" for
// dissertations). Classification is a priority-ordered table of
// predicate rules evaluated top to bottom; the first match wins and the
// most discriminating cues come first.
package classify

import (
	"regexp"
	"strings"

	"github.com/rebib/rebib/internal/record"
)

// Input is the material a rule predicate may inspect: the normalized block
// text and the fields already extracted from it.
type Input struct {
	Text   string // lowercased normalized text
	Fields map[string]string
}

// Rule is one entry of the classification table.
type Rule struct {
	Name       string
	Match      func(Input) bool
	Type       record.EntryType
	Confidence record.Confidence
}

var (
	phdRe        = regexp.MustCompile(`ph\.?\s*d\.?\s+(?:thesis|dissertation)|doctoral\s+dissertation`)
	mastersRe    = regexp.MustCompile(`master'?s?\s+thesis|msc\.?\s+thesis|diploma\s+thesis`)
	techReportRe = regexp.MustCompile(`technical\s+report|tech\.?\s+rep\.?|research\s+report`)
	proceedingsRe = regexp.MustCompile(`in\s+proc(?:\.|eedings)|proceedings\s+of`)
	conferenceRe  = regexp.MustCompile(`conference|workshop|symposium|proceedings|congress`)
)

// Rules is the classification table, in evaluation order.
var Rules = []Rule{
	{
		Name:       "phd-thesis",
		Match:      func(in Input) bool { return phdRe.MatchString(in.Text) },
		Type:       record.PhDThesis,
		Confidence: record.Certain,
	},
	{
		Name:       "masters-thesis",
		Match:      func(in Input) bool { return mastersRe.MatchString(in.Text) },
		Type:       record.MastersThesis,
		Confidence: record.Certain,
	},
	{
		Name:       "tech-report",
		Match:      func(in Input) bool { return techReportRe.MatchString(in.Text) },
		Type:       record.TechReport,
		Confidence: record.Certain,
	},
	{
		Name: "proceedings",
		Match: func(in Input) bool {
			if proceedingsRe.MatchString(in.Text) {
				return true
			}
			return in.Fields["booktitle"] != "" && conferenceRe.MatchString(in.Text)
		},
		Type:       record.InProceedings,
		Confidence: record.Heuristic,
	},
	{
		Name: "journal-article",
		Match: func(in Input) bool {
			return in.Fields["journal"] != "" &&
				(in.Fields["volume"] != "" || in.Fields["pages"] != "")
		},
		Type:       record.Article,
		Confidence: record.Certain,
	},
	{
		Name: "collection-chapter",
		Match: func(in Input) bool {
			if in.Fields["journal"] != "" {
				return false
			}
			inBook := in.Fields["booktitle"] != "" || strings.Contains(in.Text, "chapter")
			return inBook && in.Fields["pages"] != ""
		},
		Type:       record.InCollection,
		Confidence: record.Heuristic,
	},
	{
		Name: "book",
		Match: func(in Input) bool {
			return in.Fields["publisher"] != "" &&
				in.Fields["journal"] == "" && in.Fields["booktitle"] == ""
		},
		Type:       record.Book,
		Confidence: record.Heuristic,
	},
	{
		// A journal name without the volume/pages signature still beats
		// the misc fallback; seen in minimal apalike output.
		Name:       "journal-weak",
		Match:      func(in Input) bool { return in.Fields["journal"] != "" },
		Type:       record.Article,
		Confidence: record.Heuristic,
	},
	{
		Name:       "fallback",
		Match:      func(Input) bool { return true },
		Type:       record.Misc,
		Confidence: record.Heuristic,
	},
}

// Classify decides the entry type for a block. Pure and deterministic:
// identical text and fields always yield the identical result.
func Classify(plainText string, fields map[string]string) (record.EntryType, record.Confidence) {
	in := Input{Text: strings.ToLower(plainText), Fields: fields}
	if in.Fields == nil {
		in.Fields = map[string]string{}
	}
	for _, rule := range Rules {
		if rule.Match(in) {
			return rule.Type, rule.Confidence
		}
	}
	return record.Misc, record.Heuristic // unreachable; fallback always matches
}
