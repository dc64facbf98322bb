// Package search expands a free-text query into the spellings a visitor may
// have meant: other letter case, the wrong keyboard layout, or a phonetic
// transliteration between Latin and Cyrillic.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// GenerateVariants returns the query followed by its derived spellings, in a
// fixed order, without duplicates or empty strings. A blank query has none.
func GenerateVariants(q string) []string {
	if strings.TrimSpace(q) == "" {
		return nil
	}

	text := norm.NFC.String(q)
	lower := cases.Lower(language.Russian).String(text)

	enRu := TranslitEnRu(lower)
	ruEn := TranslitRuEn(lower)

	candidates := []string{
		q,
		lower,
		TitleCase(text),
		SwapLayoutEnRu(text),
		SwapLayoutRuEn(text),
		enRu,
		ruEn,
		TitleCase(enRu),
		TitleCase(ruEn),
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. Words are separated by spaces and hyphens, so "санкт-петербург"
// becomes "Санкт-Петербург".
func TitleCase(s string) string {
	lower := cases.Lower(language.Russian)
	upper := cases.Upper(language.Russian)

	var b strings.Builder
	b.Grow(len(s))

	wordStart := true
	for _, r := range s {
		if r == ' ' || r == '-' {
			b.WriteRune(r)
			wordStart = true
			continue
		}

		if wordStart {
			b.WriteString(upper.String(string(r)))
			wordStart = false
			continue
		}

		b.WriteString(lower.String(string(r)))
	}

	return b.String()
}
