package grammar

// Coalition factions per electoral term
var governments = map[int][]string{
	1:  {"CDU/CSU", "FDP", "DP"},
	2:  {"CDU/CSU", "FDP", "DP"},
	3:  {"CDU/CSU", "DP"},
	4:  {"CDU/CSU", "FDP"},
	5:  {"CDU/CSU", "SPD"},
	6:  {"SPD", "FDP"},
	7:  {"SPD", "FDP"},
	8:  {"SPD", "FDP"},
	9:  {"SPD", "FDP"},
	10: {"CDU/CSU", "FDP"},
	11: {"CDU/CSU", "FDP"},
	12: {"CDU/CSU", "FDP"},
	13: {"CDU/CSU", "FDP"},
	14: {"SPD", "BÜNDNIS 90/DIE GRÜNEN"},
	15: {"SPD", "BÜNDNIS 90/DIE GRÜNEN"},
	16: {"CDU/CSU", "SPD"},
	17: {"CDU/CSU", "FDP"},
	18: {"CDU/CSU", "SPD"},
	19: {"CDU/CSU", "SPD"},
	20: {"SPD", "BÜNDNIS 90/DIE GRÜNEN", "FDP"},
}

// GovernmentFactions returns the coalition factions of an electoral term.
// ok is false for terms without coverage.
func GovernmentFactions(term int) (factions []string, ok bool) {
	g, ok := governments[term]
	if !ok {
		return nil, false
	}
	out := make([]string, len(g))
	copy(out, g)
	return out, true
}
