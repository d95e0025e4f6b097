// Package strcase converts Go identifiers to the snake_case names used in
// JSON payloads and validation messages.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts an identifier to lower snake_case. Initialisms stay
// together: "AssetID" becomes "asset_id" and "HTTPServer" becomes "http_server".
func ToLowerSnake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// wordStart reports whether the upper-case rune at i begins a new word.
func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// end of an initialism followed by a word, as in "HTTPServer"
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
