// Package resolve attributes extracted names to politicians of a roster.
package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/unicode/norm"
)

// Ratio returns the insertion/deletion similarity of a and b in [0, 1]:
// 2·LCS / (len(a) + len(b)) counted in runes. Two empty strings are equal.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	return float64(2*edlib.LCS(a, b)) / float64(total)
}

// NormalizeName lower-cases s, replaces ß with ss and composes umlauts
func NormalizeName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.ReplaceAll(strings.ToLower(s), "ß", "ss")
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = NormalizeName(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
