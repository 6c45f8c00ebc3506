package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Portuguese articles, prepositions and conjunctions kept lowercase inside an
// artist name.
var smallWords = map[string]struct{}{
	"a": {}, "as": {}, "o": {}, "os": {}, "um": {}, "uma": {}, "uns": {}, "umas": {},
	"de": {}, "do": {}, "da": {}, "dos": {}, "das": {},
	"em": {}, "no": {}, "na": {}, "nos": {}, "nas": {},
	"por": {}, "pelo": {}, "pelos": {}, "pela": {}, "pelas": {},
	"para": {}, "pra": {},
	"e": {}, "ou": {},
	"com": {}, "sem": {}, "sob": {}, "sobre": {},
	"até": {}, "após": {}, "ante": {}, "entre": {}, "perante": {}, "desde": {}, "contra": {},
}

var forcedCase = map[string]string{
	"mc": "MC",
	"dj": "DJ",
	"n'": "N'",
	"n’": "N’",
}

var acronym = regexp.MustCompile(`^[A-Z0-9./&]+$`)

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SentenceTitle lowercases s and capitalizes its first letter. A title that
// starts with a digit or symbol is only lowercased.
func SentenceTitle(s string) string {
	t := lower(s)
	trimmed := strings.TrimLeftFunc(t, unicode.IsSpace)
	r, _ := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsLetter(r) {
		return t
	}
	offset := len(t) - len(trimmed)
	return t[:offset] + capitalize(trimmed)
}

// SmartArtistCase title-cases each word of an artist name. Short all-caps
// tokens such as "AC/DC" or "V2" pass through, "mc" and "dj" are forced
// upper, and small Portuguese function words stay lowercase unless they open
// or close the name. Hyphenated words are cased per segment; in a word with
// an apostrophe only the segment before it is capitalized.
func SmartArtistCase(input string) string {
	input = CollapseSpace(input)
	if input == "" {
		return ""
	}
	words := strings.Split(input, " ")
	total := len(words)
	for i, w := range words {
		if strings.Contains(w, "-") {
			parts := strings.Split(w, "-")
			for j, p := range parts {
				parts[j] = formatWord(p, i, total)
			}
			words[i] = strings.Join(parts, "-")
			continue
		}
		words[i] = formatWord(w, i, total)
	}
	return strings.Join(words, " ")
}

func formatWord(word string, index, total int) string {
	if acronym.MatchString(word) && utf8.RuneCountInString(word) <= 6 {
		return word
	}
	low := lower(word)
	if forced, ok := forcedCase[low]; ok {
		return forced
	}
	if _, ok := smallWords[low]; ok && index != 0 && index != total-1 {
		return low
	}
	if i := strings.IndexAny(low, "'’"); i > 0 {
		return capitalize(low[:i]) + low[i:]
	}
	return capitalize(low)
}
