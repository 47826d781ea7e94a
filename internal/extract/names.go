package extract

import (
	"regexp"
	"strings"
)

var (
	shoutIntro   = regexp.MustCompile(`(?:Gegenrufe?\sdes\s|Gegenrufe?\sder\s|Zurufe?\sdes\s|Zurufe?\sder\s)(?:Abg\s?\.\s)*`)
	honorific    = regexp.MustCompile(`Abg\s?\.\s?|Abgeordneten\s`)
	leadingWords = regexp.MustCompile(`^\s?der\s?|^\s?die\s?|^\s?das\s?|^\s?von\s?`)
)

// CleanPersonName trims shout introductions, "Abg." markers and a leading
// article or "von" from a raw name
func CleanPersonName(name string) string {
	name = strings.ReplaceAll(name, "\n", " ")
	name = shoutIntro.ReplaceAllString(name, "")
	name = honorific.ReplaceAllString(name, "")
	name = leadingWords.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// governmentRoles precede the names of government members
var governmentRoles = []string{
	"Parl. Staatssekretär",
	"Staatssekretär",
	"Staatsminister",
	"Bundesminister",
	"Bundeskanzler",
	"Minister",
}

// titleTokens are academic titles and forms of address kept in the title
var titleTokens = map[string]bool{
	"dr.": true, "dr": true, "prof.": true, "h.": true, "c.": true, "h.c.": true,
	"dipl.-ing.": true, "dr.-ing.": true, "frau": true, "herr": true,
}

// nameParticles belong to the last name ("von Weizsäcker")
var nameParticles = map[string]bool{
	"von": true, "van": true, "de": true, "zu": true, "vom": true, "zum": true, "der": true,
}

// PersonName is a cleaned name split for identity resolution
type PersonName struct {
	Role       string   // Government role, e.g. "Bundesminister"
	AcadTitle  string   // Titles and forms of address, e.g. "Frau Dr."
	FirstNames []string // First-name tokens as written
	LastName   string
}

// SplitName splits a cleaned name into role, title, first names and last
// name. The last word and any particles before it form the last name.
func SplitName(name string) PersonName {
	var pn PersonName
	name = strings.TrimSpace(name)

	for _, role := range governmentRoles {
		for _, suffix := range []string{"in", ""} {
			if r := role + suffix; strings.HasPrefix(name, r+" ") {
				pn.Role = r
				name = strings.TrimSpace(name[len(r):])
				break
			}
		}
		if pn.Role != "" {
			break
		}
	}

	words := strings.Fields(name)
	var titles []string
	for len(words) > 0 && titleTokens[strings.ToLower(words[0])] {
		titles = append(titles, words[0])
		words = words[1:]
	}
	pn.AcadTitle = strings.Join(titles, " ")
	if len(words) == 0 {
		return pn
	}

	last := len(words) - 1
	for last > 0 && nameParticles[strings.ToLower(words[last-1])] {
		last--
	}
	pn.LastName = strings.Join(words[last:], " ")
	pn.FirstNames = words[:last]
	return pn
}
