package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns   = regexp.MustCompile(`-+`)

	// letters that do not decompose into base + mark
	foldedLetters = strings.NewReplacer("đ", "d", "Đ", "D", "ø", "o", "Ø", "O", "ł", "l", "Ł", "L", "ß", "ss")
)

// GenerateSlug turns free text into a lowercase ASCII slug:
// "Ciência & Ficção" -> "ciencia-ficcao".
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)
	lower := strings.ToLower(strings.TrimSpace(ascii))
	hyphenated := strings.Join(strings.Fields(lower), "-")
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	return strings.Trim(hyphenRuns.ReplaceAllString(cleaned, "-"), "-")
}

// RemoveDiacritics strips combining marks after NFD decomposition.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, foldedLetters.Replace(input))
	if err != nil {
		return input
	}
	return out
}
