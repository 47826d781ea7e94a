// Package clean removes transcript noise before annotations are read.
package clean

import (
	"regexp"
	"strings"
)

// defaultTitles may precede a speaker name in a header line
var defaultTitles = []string{
	`(?:Parl\s?\.\s)?Staatssekretär(?:in)?`,
	`Bundeskanzler(?:in)?`,
	`Bundesminister(?:in)?`,
	`Staatsminister(?:in)?`,
}

var pageNumberLine = regexp.MustCompile(`\n\d+ *\n`)

// HeaderCleaner removes running page headers that repeat a speaker name and
// lone page numbers
type HeaderCleaner struct {
	titles string
}

// NewHeaderCleaner creates a cleaner accepting the default government titles
// plus extra titles, matched literally with an optional "in" suffix
func NewHeaderCleaner(extraTitles ...string) *HeaderCleaner {
	titles := append([]string{}, defaultTitles...)
	for _, t := range extraTitles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, regexp.QuoteMeta(t)+`(?:in)?`)
		}
	}
	return &HeaderCleaner{titles: strings.Join(titles, "|")}
}

// Clean removes every line that is exactly an optional title followed by one
// of names, and every line holding only a page number. With stripBrackets
// the names lose their ()[]{} first. Empty names leave text unchanged.
func (c *HeaderCleaner) Clean(text string, names []string, stripBrackets bool) string {
	return c.ForNames(names, stripBrackets).Clean(text)
}

// ForNames compiles the header pattern of a name set once, for cleaning
// many speeches with the same names
func (c *HeaderCleaner) ForNames(names []string, stripBrackets bool) *NameCleaner {
	quoted := quoteNames(names, stripBrackets)
	if len(quoted) == 0 {
		return &NameCleaner{}
	}
	return &NameCleaner{
		header: regexp.MustCompile(`\n(?:` + c.titles + `)?\s?(?:` + strings.Join(quoted, "|") + `) *\n`),
	}
}

// NameCleaner is a HeaderCleaner bound to a compiled name set. It is safe
// for concurrent use.
type NameCleaner struct {
	header *regexp.Regexp // nil for an empty name set
}

// Clean removes header and page-number lines; see HeaderCleaner.Clean
func (n *NameCleaner) Clean(text string) string {
	if n.header == nil {
		return text
	}
	return replaceUntilStable(replaceUntilStable(text, n.header), pageNumberLine)
}

// replaceUntilStable repeats the replacement so adjacent header lines,
// which share a newline, are all removed
func replaceUntilStable(text string, re *regexp.Regexp) string {
	for {
		next := re.ReplaceAllString(text, "\n")
		if next == text {
			return text
		}
		text = next
	}
}

func quoteNames(names []string, stripBrackets bool) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if stripBrackets {
			n = strings.Map(func(r rune) rune {
				switch r {
				case '(', ')', '[', ']', '{', '}':
					return -1
				}
				return r
			}, n)
		}
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, regexp.QuoteMeta(n))
	}
	return out
}
