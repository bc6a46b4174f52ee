// Package bbl splits raw LaTeX bibliography (.bbl) text into item blocks and
// normalizes LaTeX markup into plain Unicode text.
package bbl

import (
	"regexp"
	"strings"
)

// Block is one bibliography item as originally written.
type Block struct {
	Label string // citation key as given in the source
	Raw   string // item body, including markup
}

// SplitResult holds the blocks found in a .bbl file plus the count of
// markers that were dropped because no citation key could be extracted.
type SplitResult struct {
	Blocks  []Block
	Skipped int
}

// Item markers emitted by the common bibliography styles:
// plain/abbrv/apalike/IEEEtran use \bibitem, harvard-family styles use
// \harvarditem{short}{year}{key}.
var markerRe = regexp.MustCompile(`\\(bibitem|harvarditem)\b`)

const endEnvironment = `\end{thebibliography}`

// Split splits raw .bbl text into bibliography-item blocks in source order.
// Text before the first marker (environment header, \providecommand
// preamble) is discarded. Markers without an extractable key are dropped
// and counted in Skipped.
func Split(raw string) SplitResult {
	var res SplitResult

	locs := markerRe.FindAllStringSubmatchIndex(raw, -1)
	for i, loc := range locs {
		name := raw[loc[2]:loc[3]]

		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := raw[loc[1]:end]

		key, bodyStart, ok := parseMarkerArgs(seg, name)
		if !ok || key == "" {
			res.Skipped++
			continue
		}

		body := seg[bodyStart:]
		if idx := strings.Index(body, endEnvironment); idx >= 0 {
			body = body[:idx]
		}
		body = strings.TrimSpace(body)
		if body == "" {
			res.Skipped++
			continue
		}

		res.Blocks = append(res.Blocks, Block{Label: key, Raw: body})
	}

	return res
}

var numberedRe = regexp.MustCompile(`\[(\d{1,3})\]`)

// SplitNumbered splits rendered reference-list text on [n] markers, the
// shape numeric styles leave in compiled PDFs. Returns no blocks unless
// the first marker is [1]; bracketed numbers in ordinary prose rarely
// start a run at one.
func SplitNumbered(raw string) SplitResult {
	var res SplitResult

	locs := numberedRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 || raw[locs[0][2]:locs[0][3]] != "1" {
		return res
	}

	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(raw[loc[1]:end])
		if body == "" {
			res.Skipped++
			continue
		}
		res.Blocks = append(res.Blocks, Block{Label: "ref" + raw[loc[2]:loc[3]], Raw: body})
	}

	return res
}

// parseMarkerArgs consumes the arguments following a marker name: an
// optional bracketed label, then one brace group for \bibitem or three for
// \harvarditem (the citation key is the last group). Returns the key and
// the offset where the item body starts.
func parseMarkerArgs(s, name string) (key string, bodyStart int, ok bool) {
	i := skipSpace(s, 0)

	if i < len(s) && s[i] == '[' {
		j, closed := matchDelim(s, i, '[', ']')
		if !closed {
			return "", 0, false
		}
		i = skipSpace(s, j)
	}

	groups := 1
	if name == "harvarditem" {
		groups = 3
	}

	var last string
	for g := 0; g < groups; g++ {
		if i >= len(s) || s[i] != '{' {
			return "", 0, false
		}
		j, closed := matchDelim(s, i, '{', '}')
		if !closed {
			return "", 0, false
		}
		last = s[i+1 : j-1]
		i = skipSpace(s, j)
	}

	return strings.TrimSpace(last), i, true
}

// matchDelim scans a balanced delimiter group starting at s[start] (which
// must be the opening delimiter) and returns the index just past the
// matching close, or closed=false if the group never closes.
func matchDelim(s string, start int, open, close byte) (end int, closed bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return len(s), false
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}
