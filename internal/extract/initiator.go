package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/zwischenruf/internal/grammar"
	"github.com/ppiankov/zwischenruf/internal/model"
)

// connective is what may remain of a phrase once an embedded keyword phrase
// is removed, as in "Beifall und Zurufe bei der SPD"
var connective = regexp.MustCompile(`^[\s,.;]*(?:(?:und|sowie)[\s,.;]*)*$`)

// leadingWord strips the rest of a keyword such as the "e" of "Zurufe"
var leadingWord = regexp.MustCompile(`^\S*\s*`)

// InitiatorResolver turns the initiator phrase of a contribution into
// records. Each step removes what it matched before the next step runs.
type InitiatorResolver struct {
	classifier *Classifier
}

// Resolve emits one record per person, faction, direction and coalition
// faction named in phrase. A phrase naming nothing yields no records.
func (r *InitiatorResolver) Resolve(cat Category, phrase string, sc SpanContext) []model.ContributionRecord {
	p := patternsByEra[sc.era()]
	var out []model.ContributionRecord

	// Another keyword inside the phrase is extracted as its own category
	if loc := keywordInPhrase.FindStringSubmatchIndex(phrase); loc != nil {
		if nested, ok := categoryForKeyword(phrase[loc[2]:loc[3]]); ok {
			_, recs := r.classifier.run(nested, "("+phrase[loc[0]:loc[1]]+")", sc)
			out = append(out, recs...)

			rest := phrase[:loc[0]] + phrase[loc[1]:]
			if connective.MatchString(rest) {
				phrase = leadingWord.ReplaceAllString(phrase[loc[2]:loc[1]], "")
			} else {
				phrase = rest
			}
		}
	}

	for _, re := range []*regexp.Regexp{p.firstPerson, p.secondPerson} {
		loc := re.FindStringSubmatchIndex(phrase)
		if loc == nil {
			continue
		}
		rec := sc.record(cat,
			group(re, phrase, loc, "name_raw"),
			canonicalFaction(group(re, phrase, loc, "faction")),
			group(re, phrase, loc, "constituency", "constituency2", "constituency3"),
			"",
		)
		phrase = phrase[:loc[0]] + " " + phrase[loc[1]:]
		if !zwischenfrage.MatchString(phrase) {
			out = append(out, rec)
		}
	}

	for _, f := range grammar.Factions() {
		start, end, ok := findFaction(f.Pattern, phrase)
		if !ok {
			continue
		}
		out = append(out, sc.record(cat, "", f.Name, "", ""))
		phrase = phrase[:start] + phrase[end:]
	}

	for _, d := range direction.FindAllString(phrase, -1) {
		out = append(out, sc.record(cat, "", "", "", d))
	}
	phrase = direction.ReplaceAllString(phrase, "")

	if loc := governmentParty.FindStringIndex(phrase); loc != nil {
		factions, _ := grammar.GovernmentFactions(sc.term())
		for _, f := range factions {
			out = append(out, sc.record(cat, "", f, "", ""))
		}
	}

	return out
}

// findFaction returns the first match of re that does not sit inside a
// "[...]" bracket, which belongs to a named person
func findFaction(re *regexp.Regexp, phrase string) (int, int, bool) {
	for _, loc := range re.FindAllStringIndex(phrase, -1) {
		if loc[0] > 0 && phrase[loc[0]-1] == '[' {
			continue
		}
		if closingTail.MatchString(phrase[loc[1]:]) {
			continue
		}
		return loc[0], loc[1], true
	}
	return 0, 0, false
}

// canonicalFaction maps a bracketed faction to its canonical name
func canonicalFaction(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if c := grammar.CanonicalFaction(raw); c != "" {
		return c
	}
	return raw
}
