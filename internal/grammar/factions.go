package grammar

import "regexp"

// FactionPattern recognizes one faction, tolerating OCR damage
type FactionPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// Order matters: a faction's match is removed from the phrase before the
// next pattern runs, so "SPD" is consumed before "DP" is tried.
var factionPatterns = []FactionPattern{
	{"AfD", regexp.MustCompile(`Alternative für Deutschland|AfD`)},
	{"CDU/CSU", regexp.MustCompile(`(?:Gast|-)?(?:\s*C\s*[DSMU]\s*S?[DU]\s*(?:\s*[/,':!.-]?)*\s*(?:\s*C+\s*[DSs]?\s*[UÙ]?\s*)?)(?:-?Hosp\.|-Gast|1)?`)},
	{"SPD", regexp.MustCompile(`\s*'?S(?:PD|DP)(?:\.|-Gast)?`)},
	{"FDP", regexp.MustCompile(`\s*F\.?\s*[PDO][.']?[DP]\.?`)},
	{"BÜNDNIS 90/DIE GRÜNEN", regexp.MustCompile(`(?:BÜNDNIS\s*(?:90)?/?(?:\s*D[1I]E)?|Bündnis\s*90/(?:\s*D[1I]E)?)?\s*[GC]R[UÜ].?\s*[ÑN]EN?(?:/Bündnis 90)?|BÜNDNISSES 90/DIE GRÜNEN|Grünen|BÜNDNISSES 90/ DIE GRÜNEN|BÜNDNIS 90/DIE GRÜNEN`)},
	{"DIE LINKE", regexp.MustCompile(`DIE LIN\s?KEN?|LIN\s?KEN`)},
	{"PDS/Linke Liste", regexp.MustCompile(`(?:Gruppe\s*der\s*)?PDS(?:/(?:LL|Linke Liste))?`)},
	{"fraktionslos", regexp.MustCompile(`fraktionslos|Parteilos`)},
	{"GB/BHE", regexp.MustCompile(`(?:GB[/-]\s*)?BHE(?:-DG)?`)},
	{"DP", regexp.MustCompile(`DP`)},
	{"KPD", regexp.MustCompile(`KPD`)},
	{"Z", regexp.MustCompile(`Z\s|Zentrum`)},
	{"BP", regexp.MustCompile(`BP|Bayernpartei`)},
	{"FU", regexp.MustCompile(`FU`)},
	{"WAV", regexp.MustCompile(`WAV`)},
	{"DRP", regexp.MustCompile(`DRP(?:-Hosp\.)?`)},
	{"FVP", regexp.MustCompile(`FVP`)},
	{"SSW", regexp.MustCompile(`SSW`)},
	{"SRP", regexp.MustCompile(`SRP`)},
	{"DA", regexp.MustCompile(`DA`)},
	{"Gast", regexp.MustCompile(`Gast`)},
	{"DBP", regexp.MustCompile(`DBP`)},
	{"NR", regexp.MustCompile(`NR`)},
}

// Factions returns the ordered faction table
func Factions() []FactionPattern {
	out := make([]FactionPattern, len(factionPatterns))
	copy(out, factionPatterns)
	return out
}

// CanonicalFaction returns the canonical name of the first faction whose
// pattern matches s, or "" when none does
func CanonicalFaction(s string) string {
	for _, f := range factionPatterns {
		if f.Pattern.MatchString(s) {
			return f.Name
		}
	}
	return ""
}
