package search

import "strings"

var latinDigraphs = map[string]string{
	"sch": "щ",
	"sh":  "ш",
	"ch":  "ч",
	"yo":  "ё",
	"yu":  "ю",
	"ya":  "я",
	"zh":  "ж",
	"kh":  "х",
	"ts":  "ц",
}

const longestDigraph = 3

var latinLetters = map[rune]string{
	'a': "а", 'b': "б", 'c': "к", 'd': "д", 'e': "е", 'f': "ф", 'g': "г", 'h': "х", 'i': "и",
	'j': "й", 'k': "к", 'l': "л", 'm': "м", 'n': "н", 'o': "о", 'p': "п", 'q': "к", 'r': "р",
	's': "с", 't': "т", 'u': "у", 'v': "в", 'w': "в", 'x': "кс", 'y': "ы", 'z': "з",
}

var cyrillicLetters = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z",
	'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// TranslitEnRu spells lower-case Latin text phonetically in Cyrillic.
// Digraphs win over single letters; the scan is left to right and never reuses
// a consumed letter. Runes outside the tables are copied as is.
func TranslitEnRu(s string) string {
	in := []rune(s)
	var b strings.Builder
	b.Grow(len(s) * 2)

	for i := 0; i < len(in); {
		matched := false

		for n := longestDigraph; n >= 2; n-- {
			if i+n > len(in) {
				continue
			}
			if ru, ok := latinDigraphs[string(in[i:i+n])]; ok {
				b.WriteString(ru)
				i += n
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if ru, ok := latinLetters[in[i]]; ok {
			b.WriteString(ru)
		} else {
			b.WriteRune(in[i])
		}
		i++
	}

	return b.String()
}

// TranslitRuEn spells lower-case Cyrillic text in Latin letters.
func TranslitRuEn(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if en, ok := cyrillicLetters[r]; ok {
			b.WriteString(en)
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
