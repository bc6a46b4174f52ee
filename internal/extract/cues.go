package extract

import "regexp"

// Cue tables. Seeded from the phrasing conventions of the plain, abbrv,
// apalike, IEEEtran and natbib style families; extendable via Options.

// journalCues mark a segment as a journal name.
var journalCues = []string{
	"journal", "transactions", "letters", "review", "reviews",
	"annals", "acta", "bulletin", "magazine", "quarterly", "monthly",
}

// publisherCues mark a segment as a publisher.
var publisherCues = []string{
	"press", "publishers", "publishing", "verlag",
	"springer", "elsevier", "wiley", "academic press",
	"addison-wesley", "mcgraw-hill", "north-holland", "prentice hall",
	"crc", "o'reilly",
}

// schoolCues mark a segment as a degree-granting institution.
var schoolCues = []string{
	"university", "institute", "college", "school of", "polytechnic",
}

// Abbreviations whose trailing period must not end a segment.
var abbreviations = map[string]bool{
	"vol": true, "no": true, "pp": true, "ed": true, "eds": true,
	"proc": true, "conf": true, "symp": true, "tech": true, "rep": true,
	"univ": true, "dept": true, "jr": true, "sr": true, "st": true,
	"ph": true, "etc": true, "et": true, "al": true,
}

var (
	// DOI pattern: 10.XXXX/suffix. Markup is already stripped, so the
	// suffix runs to whitespace or closing punctuation.
	doiRe = regexp.MustCompile(`(?i)(?:doi[:\s]*)?\b(10\.\d{4,9}/[^\s<>"|\[\]]+)`)
	urlRe = regexp.MustCompile(`(?i)\b(?:url[:\s]+)?(https?://[^\s]+)`)

	parenYearRe = regexp.MustCompile(`\((\d{4})[a-z]?\)`)
	bareYearRe  = regexp.MustCompile(`\b(\d{4})\b`)

	cuedPagesRe = regexp.MustCompile(`(?i)\b(?:pages?|pp?\.?)\s+(\d+)\s*(?:--|–|-)\s*(\d+)`)
	barePagesRe = regexp.MustCompile(`\b(\d+)\s*(?:--|–)\s*(\d+)\b`)

	volumeRe = regexp.MustCompile(`(?i)\bvol(?:ume)?[.:]?\s*(\d+)`)
	numberRe = regexp.MustCompile(`(?i)\b(?:no|number|issue)[.:]\s*(\d+)`)
	// journal shorthand: 12(3):45--67 and 12:45--67
	volNumPagesRe = regexp.MustCompile(`\b(\d+)\s*\(\s*(\d+)\s*\)\s*:\s*(\d+)\s*(?:--|–|-)\s*(\d+)`)
	volPagesRe    = regexp.MustCompile(`\b(\d+)\s*:\s*(\d+)\s*(?:--|–|-)\s*(\d+)`)

	reportNumberRe = regexp.MustCompile(`(?i)\btech(?:nical)?\.?\s+rep(?:ort)?\.?,?\s+([A-Za-z]*[\d][\w./-]*)`)

	proceedingsRe = regexp.MustCompile(`(?i)\bin:?\s+proc(?:\.|eedings)\s+(?:of\s+)?(?:the\s+)?([^,.]+)`)
	// "In <Venue>" with a capitalized venue; lowercase "in" mid-sentence
	// is prose, not a container cue.
	inVenueRe = regexp.MustCompile(`(?:^|[.,;]\s*)[Ii]n:?\s+([A-Z][^,.]*)`)

	// a bare surname-attached initial list: "J.", "J. R", "J.-P."
	initialsOnlyRe = regexp.MustCompile(`^[A-Z](?:\.[\s-]?[A-Z])*\.?$`)

	thesisPrefixRe = regexp.MustCompile(`(?i)^(?:ph\.?\s*d\.?|master'?s?|doctoral)\s+(?:thesis|dissertation)[,\s]*`)
)
