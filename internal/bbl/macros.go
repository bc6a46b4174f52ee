package bbl

// Accent macros map a LaTeX accent command character to its Unicode
// combining mark. The accented result is composed to NFC afterwards, so
// \'{e} yields the precomposed é.
var combiningAccents = map[byte]rune{
	'`':  0x0300, // grave
	'\'': 0x0301, // acute
	'^':  0x0302, // circumflex
	'~':  0x0303, // tilde
	'=':  0x0304, // macron
	'.':  0x0307, // dot above
	'"':  0x0308, // diaeresis
	'u':  0x0306, // breve
	'v':  0x030C, // caron
	'H':  0x030B, // double acute
	'r':  0x030A, // ring above
	'c':  0x0327, // cedilla
	'k':  0x0328, // ogonek
	'b':  0x0331, // macron below
	'd':  0x0323, // dot below
}

// Named symbol macros translated to their Unicode equivalents. Anything not
// in this table is stripped later as an unrecognized control sequence.
// Seeded from plain/abbrv/apalike/IEEEtran/natbib output and extended as
// new style output turns up.
var namedMacros = map[string]string{
	"ss": "ß",
	"ae": "æ", "AE": "Æ",
	"oe": "œ", "OE": "Œ",
	"aa": "å", "AA": "Å",
	"o": "ø", "O": "Ø",
	"l": "ł", "L": "Ł",
	"i": "i", // dotless i carries the accent; plain i composes correctly
	"j": "j",
	"ldots": "…", "dots": "…",
	"textendash": "–", "textemdash": "—",
	"textquotedblleft": "“", "textquotedblright": "”",
	"textquoteleft": "‘", "textquoteright": "’",
	"copyright": "©",
	"S":         "§",
	"P":         "¶",
	"dag":       "†",
	"ddag":      "‡",
	"pounds":    "£",
}

// Control symbols that translate to literal characters.
var symbolMacros = map[byte]string{
	'&': "&",
	'%': "%",
	'$': "$",
	'#': "#",
	'_': "_",
	',': " ",
	' ': " ",
	'-': "", // discretionary hyphen
	'/': "", // italic correction
}

// Emphasis-family macros whose argument text survives unwrapping. The
// italic subset doubles as the venue signal for the field extractor.
var (
	argMacros    = []string{"emph", "textit", "textsl", "textbf", "textsc", "texttt", "textrm", "textup", "textnormal", "mbox", "hbox", "url", "path"}
	groupMacros  = []string{"em", "it", "sl", "bf", "sc", "tt", "rm"}
	italicArgs   = []string{"emph", "textit", "textsl"}
	italicGroups = []string{"em", "it", "sl"}
)
