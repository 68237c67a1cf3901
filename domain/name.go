package domain

import (
	"strings"
	"unicode"
)

// SanitizeName strips a client-supplied display or room name down to the
// accepted alphabet: letters, digits, '-', '_' and inner spaces. The result
// is trimmed; an empty result means the name is unusable.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, c := range strings.TrimSpace(name) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' || c == ' ' {
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}
