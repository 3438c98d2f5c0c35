package helpers

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize lower-cases and trims a state, allegiance or material name.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// UpperFirstRune returns s with the first rune converted to upper case.
func UpperFirstRune(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
