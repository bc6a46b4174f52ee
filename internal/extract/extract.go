// Package extract pulls structured bibliographic fields out of normalized
// bibliography-item text.
//
// An ordered list of pattern rules runs over the text; each rule matches a
// bounded span and claims it, removing it from consideration by later
// rules. Author and title come last, from the leading unclaimed segments.
// No rule ever fails: an absent pattern simply leaves its field unset.
package extract

import (
	"strconv"
	"strings"
	"unicode"
)

// Options tune extraction for one block.
type Options struct {
	// EmphasizedSpans are italics-derived venue hints in source order.
	EmphasizedSpans []string
	// ExtraVenueCues extends the journal cue-word table.
	ExtraVenueCues []string
}

// Result is the partial fields mapping plus the text no rule claimed.
type Result struct {
	Fields   map[string]string
	Residual string
}

// Fields applies the rule set to normalized block text.
func Fields(plain string, opts Options) Result {
	fields := make(map[string]string)
	rest := plain

	rest = claimURL(rest, fields)
	rest = claimDOI(rest, fields)
	rest = claimYear(rest, fields)
	rest = claimVolNumPages(rest, fields)
	rest = claimPages(rest, fields)
	rest = claimVolume(rest, fields)
	rest = claimNumber(rest, fields)
	rest = claimReportNumber(rest, fields)
	rest = claimProceedings(rest, fields)

	segments := splitSegments(rest)
	residual := assignSegments(segments, fields, opts)

	return Result{Fields: fields, Residual: residual}
}

func claimURL(s string, fields map[string]string) string {
	m := urlRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	u := strings.TrimRight(s[m[2]:m[3]], ".,;:)")
	if i := strings.Index(u, "doi.org/"); i >= 0 {
		fields["doi"] = u[i+len("doi.org/"):]
	} else {
		fields["url"] = u
	}
	return claim(s, m[0], m[1])
}

func claimDOI(s string, fields map[string]string) string {
	m := doiRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	if fields["doi"] == "" {
		fields["doi"] = strings.TrimRight(s[m[2]:m[3]], ".,;:)")
	}
	return claim(s, m[0], m[1])
}

// claimYear prefers a 4-digit token in parentheses (apalike/natbib place
// the year there), otherwise takes the last plausible bare token.
func claimYear(s string, fields map[string]string) string {
	for _, m := range parenYearRe.FindAllStringSubmatchIndex(s, -1) {
		if y := s[m[2]:m[3]]; plausibleYear(y) {
			fields["year"] = y
			return claim(s, m[0], m[1])
		}
	}
	matches := bareYearRe.FindAllStringSubmatchIndex(s, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if y := s[m[2]:m[3]]; plausibleYear(y) {
			fields["year"] = y
			return claim(s, m[0], m[1])
		}
	}
	return s
}

func plausibleYear(tok string) bool {
	n, err := strconv.Atoi(tok)
	return err == nil && n >= 1450 && n <= 2100
}

func claimVolNumPages(s string, fields map[string]string) string {
	if m := volNumPagesRe.FindStringSubmatchIndex(s); m != nil {
		fields["volume"] = s[m[2]:m[3]]
		fields["number"] = s[m[4]:m[5]]
		fields["pages"] = s[m[6]:m[7]] + "--" + s[m[8]:m[9]]
		return claim(s, m[0], m[1])
	}
	if m := volPagesRe.FindStringSubmatchIndex(s); m != nil {
		fields["volume"] = s[m[2]:m[3]]
		fields["pages"] = s[m[4]:m[5]] + "--" + s[m[6]:m[7]]
		return claim(s, m[0], m[1])
	}
	return s
}

func claimPages(s string, fields map[string]string) string {
	if fields["pages"] != "" {
		return s
	}
	m := cuedPagesRe.FindStringSubmatchIndex(s)
	if m == nil {
		m = barePagesRe.FindStringSubmatchIndex(s)
	}
	if m == nil {
		return s
	}
	fields["pages"] = s[m[2]:m[3]] + "--" + s[m[4]:m[5]]
	return claim(s, m[0], m[1])
}

func claimVolume(s string, fields map[string]string) string {
	if fields["volume"] != "" {
		return s
	}
	if m := volumeRe.FindStringSubmatchIndex(s); m != nil {
		fields["volume"] = s[m[2]:m[3]]
		return claim(s, m[0], m[1])
	}
	return s
}

func claimNumber(s string, fields map[string]string) string {
	if fields["number"] != "" {
		return s
	}
	if m := numberRe.FindStringSubmatchIndex(s); m != nil {
		fields["number"] = s[m[2]:m[3]]
		return claim(s, m[0], m[1])
	}
	return s
}

func claimReportNumber(s string, fields map[string]string) string {
	if fields["number"] != "" {
		return s
	}
	if m := reportNumberRe.FindStringSubmatchIndex(s); m != nil {
		fields["number"] = s[m[2]:m[3]]
		// Keep the "Technical Report" cue for the classifier; claim only
		// the number itself.
		return claim(s, m[2], m[3])
	}
	return s
}

func claimProceedings(s string, fields map[string]string) string {
	if m := proceedingsRe.FindStringSubmatchIndex(s); m != nil {
		fields["booktitle"] = strings.TrimSpace(s[m[2]:m[3]])
		return claim(s, m[0], m[1])
	}
	if m := inVenueRe.FindStringSubmatchIndex(s); m != nil {
		if bt := strings.TrimSpace(s[m[2]:m[3]]); bt != "" {
			fields["booktitle"] = bt
			return claim(s, m[2], m[3])
		}
	}
	return s
}

// claim replaces s[from:to] with a space so the span cannot match again
// while word boundaries around it survive.
func claim(s string, from, to int) string {
	return s[:from] + " " + s[to:]
}

// splitSegments splits on sentence boundaries ('.' or ';' followed by
// space), skipping periods that terminate author initials or known
// abbreviations.
func splitSegments(s string) []string {
	var segments []string
	var cur strings.Builder

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		cur.WriteRune(r)
		if (r == '.' || r == ';') && i+1 < len(runes) && runes[i+1] == ' ' {
			if r == '.' && isAbbreviationEnd(runes[:i]) {
				continue
			}
			if seg := cleanSegment(cur.String()); seg != "" {
				segments = append(segments, seg)
			}
			cur.Reset()
		}
	}
	if seg := cleanSegment(cur.String()); seg != "" {
		segments = append(segments, seg)
	}
	return segments
}

// isAbbreviationEnd reports whether the token ending at the given position
// is a single initial (J.) or a known abbreviation (Vol., pp.).
func isAbbreviationEnd(before []rune) bool {
	end := len(before)
	start := end
	for start > 0 && (unicode.IsLetter(before[start-1]) || before[start-1] == '\'') {
		start--
	}
	tok := string(before[start:end])
	if len(tok) == 1 && unicode.IsUpper([]rune(tok)[0]) {
		return true
	}
	return abbreviations[strings.ToLower(tok)]
}

func cleanSegment(s string) string {
	return strings.Trim(s, " \t.,;:")
}

// assignSegments derives author, title, and venue fields from the
// unclaimed segments, returning whatever text was left over.
func assignSegments(segments []string, fields map[string]string, opts Options) string {
	if len(segments) == 0 {
		return ""
	}

	if len(segments) == 1 {
		fields["title"] = segments[0]
		return ""
	}

	fields["author"] = normalizeAuthors(segments[0])
	fields["title"] = segments[1]

	var leftover []string
	for _, seg := range segments[2:] {
		switch {
		case fields["journal"] == "" && isJournalSegment(seg, opts):
			fields["journal"] = seg
		case fields["publisher"] == "" && containsAnyFold(seg, publisherCues):
			fields["publisher"] = seg
		case fields["school"] == "" && containsAnyFold(seg, schoolCues):
			// "PhD thesis, Famous University" -> school is just the
			// institution; the thesis phrase stays in the block text
			// for the classifier.
			fields["school"] = strings.TrimSpace(thesisPrefixRe.ReplaceAllString(seg, ""))
		default:
			leftover = append(leftover, seg)
		}
	}

	residual := strings.Join(leftover, ". ")
	venueFound := fields["journal"] != "" || fields["booktitle"] != "" ||
		fields["publisher"] != "" || fields["school"] != ""
	if !venueFound && residual != "" {
		fields["note"] = residual
		return ""
	}
	return residual
}

// isJournalSegment recognizes a journal name either by cue words or by
// matching an italics-derived span. Styles in the plain family emphasize
// the container name, so a span landing past the title is a venue.
func isJournalSegment(seg string, opts Options) bool {
	if containsAnyFold(seg, journalCues) || containsAnyFold(seg, opts.ExtraVenueCues) {
		return true
	}
	for _, span := range opts.EmphasizedSpans {
		if span != "" && strings.Contains(seg, span) {
			return true
		}
	}
	return false
}

func containsAnyFold(s string, cues []string) bool {
	lower := strings.ToLower(s)
	for _, cue := range cues {
		if strings.Contains(lower, strings.ToLower(cue)) {
			return true
		}
	}
	return false
}

// normalizeAuthors rewrites an author-list segment into BibTeX's single
// "and"-joined string. Both "First Last, First Last and First Last" and
// "Last, F., Last, F." input shapes are handled; initials-only comma parts
// reattach to the preceding surname.
func normalizeAuthors(seg string) string {
	var authors []string
	for _, chunk := range splitOnAnd(seg) {
		parts := strings.Split(chunk, ",")
		var cur string
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if cur != "" && initialsOnlyRe.MatchString(p) {
				// Segment cleanup trims the final period off "Smith, J.";
				// put it back on the initial.
				if !strings.HasSuffix(p, ".") {
					p += "."
				}
				cur = cur + ", " + p
				continue
			}
			if cur != "" {
				authors = append(authors, cur)
			}
			cur = p
		}
		if cur != "" {
			authors = append(authors, cur)
		}
	}
	return strings.Join(authors, " and ")
}

func splitOnAnd(s string) []string {
	s = strings.ReplaceAll(s, ", and ", " and ")
	s = strings.ReplaceAll(s, " & ", " and ")
	return strings.Split(s, " and ")
}
