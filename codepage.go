package wavinfo

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Windows code page identifiers as found in ltxt and CSET chunks.
var codepages = map[uint16]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	855:   charmap.CodePage855,
	858:   charmap.CodePage858,
	860:   charmap.CodePage860,
	862:   charmap.CodePage862,
	863:   charmap.CodePage863,
	865:   charmap.CodePage865,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
	10007: charmap.MacintoshCyrillic,
	20866: charmap.KOI8R,
	21866: charmap.KOI8U,
	28591: charmap.ISO8859_1,
	28592: charmap.ISO8859_2,
	28593: charmap.ISO8859_3,
	28594: charmap.ISO8859_4,
	28595: charmap.ISO8859_5,
	28596: charmap.ISO8859_6,
	28597: charmap.ISO8859_7,
	28598: charmap.ISO8859_8,
	28599: charmap.ISO8859_9,
	28603: charmap.ISO8859_13,
	28605: charmap.ISO8859_15,
	65001: unicode.UTF8,
}

// CodepageEncoding returns the text encoding for a Windows code page number.
func CodepageEncoding(codepage uint16) (encoding.Encoding, bool) {
	enc, ok := codepages[codepage]
	return enc, ok
}

// RIFF country codes, used by CSET and ltxt chunks.
var countryNames = map[uint16]string{
	0:   "None Indicated",
	1:   "USA",
	2:   "Canada",
	3:   "Latin America",
	30:  "Greece",
	31:  "Netherlands",
	32:  "Belgium",
	33:  "France",
	34:  "Spain",
	39:  "Italy",
	41:  "Switzerland",
	43:  "Austria",
	44:  "United Kingdom",
	45:  "Denmark",
	46:  "Sweden",
	47:  "Norway",
	49:  "West Germany",
	52:  "Mexico",
	55:  "Brazil",
	61:  "Australia",
	64:  "New Zealand",
	81:  "Japan",
	82:  "Korea",
	86:  "People's Republic of China",
	88:  "Taiwan",
	90:  "Turkey",
	351: "Portugal",
	352: "Luxembourg",
	354: "Iceland",
	358: "Finland",
}

type languageDialect struct {
	language, dialect uint16
}

// RIFF language and dialect codes.
var languageNames = map[languageDialect]string{
	{0, 0}:   "None Indicated",
	{1, 1}:   "Arabic",
	{2, 1}:   "Bulgarian",
	{3, 1}:   "Catalan",
	{4, 1}:   "Traditional Chinese",
	{4, 2}:   "Simplified Chinese",
	{5, 1}:   "Czech",
	{6, 1}:   "Danish",
	{7, 1}:   "German",
	{7, 2}:   "Swiss German",
	{8, 1}:   "Greek",
	{9, 1}:   "US English",
	{9, 2}:   "UK English",
	{10, 1}:  "Spanish",
	{10, 2}:  "Spanish Mexican",
	{11, 1}:  "Finnish",
	{12, 1}:  "French",
	{12, 2}:  "Belgian French",
	{12, 3}:  "Canadian French",
	{12, 4}:  "Swiss French",
	{13, 1}:  "Hebrew",
	{14, 1}:  "Hungarian",
	{15, 1}:  "Icelandic",
	{16, 1}:  "Italian",
	{16, 2}:  "Swiss Italian",
	{17, 1}:  "Japanese",
	{18, 1}:  "Korean",
	{19, 1}:  "Dutch",
	{19, 2}:  "Belgian Dutch",
	{20, 1}:  "Norwegian - Bokmal",
	{20, 2}:  "Norwegian - Nynorsk",
	{21, 1}:  "Polish",
	{22, 1}:  "Brazilian Portuguese",
	{22, 2}:  "Portuguese",
	{23, 1}:  "Rhaeto-Romanic",
	{24, 1}:  "Romanian",
	{25, 1}:  "Russian",
	{26, 1}:  "Serbo-Croatian (Latin)",
	{26, 2}:  "Serbo-Croatian (Cyrillic)",
	{27, 1}:  "Slovak",
	{28, 1}:  "Albanian",
	{29, 1}:  "Swedish",
	{30, 1}:  "Thai",
	{31, 1}:  "Turkish",
	{32, 1}:  "Urdu",
	{33, 1}:  "Bahasa",
}

// CountryName returns the name of a RIFF country code.
func CountryName(code uint16) (string, bool) {
	name, ok := countryNames[code]
	return name, ok
}

// LanguageName returns the name of a RIFF language and dialect pair.
func LanguageName(language, dialect uint16) (string, bool) {
	name, ok := languageNames[languageDialect{language, dialect}]
	return name, ok
}
