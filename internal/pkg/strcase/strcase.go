// Package strcase converts Go identifiers to the casings used in API payloads
// and logs. Initialisms count as one word: EmailOTPCode splits into
// email, otp, code.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts an identifier to snake_case.
func ToLowerSnake(s string) string {
	return strings.Join(words(s), "_")
}

// ToLowerCamel converts an identifier to lowerCamelCase.
func ToLowerCamel(s string) string {
	parts := words(s)
	for i := 1; i < len(parts); i++ {
		r := []rune(parts[i])
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, "")
}

// words splits s at lower-to-upper and digit-to-upper transitions, and at the
// last capital of an initialism that is followed by a lowercase letter.
func words(s string) []string {
	runes := []rune(s)

	var out []string
	start := 0
	for i := 1; i < len(runes); i++ {
		r, prev := runes[i], runes[i-1]
		if !unicode.IsUpper(r) {
			continue
		}

		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
			out = append(out, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	if start < len(runes) {
		out = append(out, strings.ToLower(string(runes[start:])))
	}
	return out
}
