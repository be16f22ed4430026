// Package search implements phrase normalization for full-text matching.
//
// A stored field value and a search phrase are both mapped through Normalize
// before comparison, so punctuation, spacing, case, and Cyrillic spellings of
// Latin acronyms never affect matching.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// cyrillicToLatin maps folded Cyrillic letters onto Latin sequences.
// Operators routinely type Latin acronyms in the Russian layout ("цнц" for
// CNC), so both spellings must land on the same key.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "i", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// Normalize maps arbitrary text to its canonical search key.
//
// Every rune that is not an ASCII digit, ASCII letter, or Cyrillic letter is
// dropped; the remainder is case-folded and Cyrillic letters are
// transliterated to Latin. The function is pure, total, and idempotent:
// its output contains only ASCII lowercase letters and digits.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var kept strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			kept.WriteRune(r)
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			kept.WriteRune(r)
		case unicode.Is(unicode.Cyrillic, r):
			kept.WriteRune(r)
		}
	}

	folded := cases.Fold().String(kept.String())

	var out strings.Builder
	out.Grow(len(folded))
	for _, r := range folded {
		if lat, ok := cyrillicToLatin[r]; ok {
			out.WriteString(lat)
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// Matches reports whether the normalized phrase occurs as a substring of any
// of the given values after normalization. An empty phrase matches anything.
func Matches(phrase string, values []string) bool {
	key := Normalize(phrase)
	if key == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(Normalize(v), key) {
			return true
		}
	}
	return false
}
