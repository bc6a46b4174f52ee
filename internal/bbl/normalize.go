package bbl

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// \'e, \'{e}, \"{o}, also tolerating an escaped letter as in \'{\i}
	punctAccentRe = regexp.MustCompile("\\\\([`'^~=.\"])\\s*\\{?\\\\?([a-zA-Z])\\}?")
	// \v{c}, \u g, \c{c} -- letter-named accents need a separator
	letterAccentRe = regexp.MustCompile(`\\([uvHrckbd])(?:\s*\{\\?([a-zA-Z])\}|\s+([a-zA-Z]))`)

	namedMacroRe    = regexp.MustCompile(`\\([a-zA-Z]+)\*?(\{\})?`)
	controlSymbolRe = regexp.MustCompile(`\\([^a-zA-Z\\])`)

	// brace group with one level of nesting tolerated
	braceArg = `((?:[^{}]|\{[^{}]*\})*)`

	argMacroRe     = regexp.MustCompile(`\\(?:` + strings.Join(argMacros, "|") + `)\*?\{` + braceArg + `\}`)
	groupMacroRe   = regexp.MustCompile(`\{\\(?:` + strings.Join(groupMacros, "|") + `)\b\s*` + braceArg + `\}`)
	italicArgRe    = regexp.MustCompile(`\\(?:` + strings.Join(italicArgs, "|") + `)\*?\{` + braceArg + `\}`)
	italicGroupRe  = regexp.MustCompile(`\{\\(?:` + strings.Join(italicGroups, "|") + `)\b\s*` + braceArg + `\}`)
	strayControlRe = regexp.MustCompile(`\\[a-zA-Z@]+\*?`)
)

// Normalize converts raw .bbl item markup into plain Unicode text. It is
// total: malformed markup (unmatched braces, unknown macros) is recovered
// best-effort and never causes an error. The result contains no backslash
// and no brace, with whitespace collapsed to single spaces.
//
// Transformations, in fixed order: line joining, accent and symbol macro
// translation, emphasis unwrapping, control-sequence and brace stripping,
// whitespace collapsing.
func Normalize(raw string) string {
	s := joinLines(raw)
	s = translateAccents(s)
	s = translateNamedMacros(s)
	s = unwrapEmphasis(s)
	s = stripMarkup(s)
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// EmphasizedSpans returns the normalized text of italic-family spans
// (\emph, \textit, {\em ...}) in source order. Bibliography styles mark
// journal and book titles this way, so the spans serve as a venue hint for
// field extraction.
func EmphasizedSpans(raw string) []string {
	s := joinLines(raw)
	var spans []string
	collect := func(re *regexp.Regexp) {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			if t := Normalize(m[1]); t != "" {
				spans = append(spans, t)
			}
		}
	}
	collect(italicArgRe)
	collect(italicGroupRe)
	return spans
}

// joinLines removes %-comments (which in TeX also swallow the line break)
// and collapses remaining line breaks to single spaces.
func joinLines(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == '%':
			b.WriteString(`\%`)
			i++
		case c == '%':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '\n' || c == '\r':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func translateAccents(s string) string {
	s = punctAccentRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := punctAccentRe.FindStringSubmatch(m)
		return sub[2] + string(combiningAccents[sub[1][0]])
	})
	s = letterAccentRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := letterAccentRe.FindStringSubmatch(m)
		letter := sub[2]
		if letter == "" {
			letter = sub[3]
		}
		return letter + string(combiningAccents[sub[1][0]])
	})
	return s
}

func translateNamedMacros(s string) string {
	s = namedMacroRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := namedMacroRe.FindStringSubmatch(m)
		if repl, ok := namedMacros[sub[1]]; ok {
			return repl
		}
		return m // unknown; stripped later
	})
	return controlSymbolRe.ReplaceAllStringFunc(s, func(m string) string {
		if repl, ok := symbolMacros[m[1]]; ok {
			return repl
		}
		return ""
	})
}

// unwrapEmphasis replaces emphasis/bold/small-caps groups with their
// argument text, innermost first.
func unwrapEmphasis(s string) string {
	for {
		next := argMacroRe.ReplaceAllString(s, "$1")
		next = groupMacroRe.ReplaceAllString(next, "$1")
		if next == s {
			return s
		}
		s = next
	}
}

// stripMarkup drops any control sequence still standing and removes all
// brace grouping, keeping the text content. Ties (~) become spaces.
func stripMarkup(s string) string {
	s = strayControlRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, `\\`, " ")
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.ReplaceAll(s, "~", " ")
	s = strings.ReplaceAll(s, "{", "")
	return strings.ReplaceAll(s, "}", "")
}
