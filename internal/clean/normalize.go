package clean

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize composes decomposed characters (u + combining diaeresis → ü)
// and unifies line endings and non-breaking spaces
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return norm.NFC.String(text)
}
