// Package text normalises raw extracted text before chunking.
package text

import (
	"strings"
	"unicode"
)

// Normalise replaces every run of whitespace with a single space and trims
// both ends. It is idempotent: Normalise(Normalise(s)) == Normalise(s).
func Normalise(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	for _, r := range raw {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
