package search

import "unicode"

// keys of a QWERTY keyboard and the letters the same keys produce in ЙЦУКЕН.
var qwertyToJcuken = map[rune]rune{
	'q': 'й', 'w': 'ц', 'e': 'у', 'r': 'к', 't': 'е', 'y': 'н', 'u': 'г', 'i': 'ш', 'o': 'щ', 'p': 'з',
	'[': 'х', ']': 'ъ',
	'a': 'ф', 's': 'ы', 'd': 'в', 'f': 'а', 'g': 'п', 'h': 'р', 'j': 'о', 'k': 'л', 'l': 'д',
	';': 'ж', '\'': 'э',
	'z': 'я', 'x': 'ч', 'c': 'с', 'v': 'м', 'b': 'и', 'n': 'т', 'm': 'ь',
	',': 'б', '.': 'ю', '`': 'ё',
}

// shifted punctuation keys carry the upper-case letters.
var qwertyShifted = map[rune]rune{
	'{': 'Х', '}': 'Ъ', ':': 'Ж', '"': 'Э', '<': 'Б', '>': 'Ю', '~': 'Ё',
}

var enToRuLayout, ruToEnLayout = buildLayout()

func buildLayout() (map[rune]rune, map[rune]rune) {
	enToRu := make(map[rune]rune, len(qwertyToJcuken)*2)
	ruToEn := make(map[rune]rune, len(qwertyToJcuken)*2)

	for en, ru := range qwertyToJcuken {
		enToRu[en] = ru
		ruToEn[ru] = en

		if unicode.IsLetter(en) {
			enToRu[unicode.ToUpper(en)] = unicode.ToUpper(ru)
			ruToEn[unicode.ToUpper(ru)] = unicode.ToUpper(en)
		}
	}

	for en, ru := range qwertyShifted {
		enToRu[en] = ru
		ruToEn[ru] = en
	}

	return enToRu, ruToEn
}

// SwapLayoutEnRu retypes text entered with the English layout active as if the
// Russian layout had been on ("ghbdtn" -> "привет").
func SwapLayoutEnRu(s string) string {
	return mapRunes(s, enToRuLayout)
}

// SwapLayoutRuEn is the inverse of SwapLayoutEnRu ("руддщ" -> "hello").
func SwapLayoutRuEn(s string) string {
	return mapRunes(s, ruToEnLayout)
}

func mapRunes(s string, table map[rune]rune) string {
	out := []rune(s)
	for i, r := range out {
		if mapped, ok := table[r]; ok {
			out[i] = mapped
		}
	}
	return string(out)
}
