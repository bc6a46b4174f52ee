// Package pdftext extracts bibliography text from compiled PDF documents,
// for users who no longer have the .bbl source.
package pdftext

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var headingRe = regexp.MustCompile(`(?mi)^\s*(?:\d+\.?\s*)?(references|bibliography)\s*$`)

// ExtractBibliography returns the text of a PDF from its references
// section onward. If no "References"/"Bibliography" heading is found, the
// full text is returned so the caller's pipeline can still try.
func ExtractBibliography(path string) (string, error) {
	text, err := ExtractText(path, 0)
	if err != nil {
		return "", err
	}

	// Take the last heading match: papers cite the word "references" in
	// running text, but the section itself comes last.
	locs := headingRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}
	last := locs[len(locs)-1]
	return text[last[1]:], nil
}

// ExtractText extracts plain text from the first maxPages pages of a PDF.
// maxPages <= 0 reads every page. Pages that fail to decode are skipped.
func ExtractText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
