package extract

import (
	"regexp"

	g "github.com/ppiankov/zwischenruf/internal/grammar"
)

// familyPatterns holds the compiled patterns of one era
type familyPatterns struct {
	applause           *regexp.Regexp
	personInterjection *regexp.Regexp
	shout              *regexp.Regexp
	factionShout       *regexp.Regexp
	cheerfulness       *regexp.Regexp
	objection          *regexp.Regexp
	laughter           *regexp.Regexp
	approval           *regexp.Regexp
	interruption       *regexp.Regexp
	disturbance        *regexp.Regexp

	firstPerson  *regexp.Regexp
	secondPerson *regexp.Regexp
}

// Patterns shared by both eras
var (
	keywordInPhrase = regexp.MustCompile(`\b(?P<type>[Bb]eifall|[Zz]uruf|[Gg]egenruf|[Rr]uf|[Hh]eiterkeit|[Ww]iderspruch|[Ll]achen|[Zz]ustimmung|[Uu]nterbrechung|[Uu]nruhe)(?:[^\s]|\s+[^\s\-–—]|\s+[\-–—][^\s])*\s*`)
	zwischenfrage   = regexp.MustCompile(`[Zz]wischenfrage`)
	direction       = regexp.MustCompile(`[Rr]echts|[Ll]inks|[Mm]itte`)
	governmentParty = regexp.MustCompile(`[Rr]egierungspar[^\s]+`)
	closingTail     = regexp.MustCompile(`^[^\[\s]*\]`)
	placeholder     = regexp.MustCompile(`^\(\{\d+\}\)$`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

var patternsByEra = map[g.Era]*familyPatterns{
	g.EraFaction: compilePatterns(g.EraFaction),
	g.EraFlat:    compilePatterns(g.EraFlat),
}

// shoutOpen lets a shout follow another keyword inside the same aside
var shoutOpen = g.Raw(`(?:[Hh]eiterkeit|[Ll]achen|[Ww]eiterer?|[Ee]rneuter?|[Ff]ortgesetzte|[Ww]eitere\s[Ll]ebhafte|[Ll]ebhafte|Andauernde|Fortdauernde)\s`)

func compilePatterns(era g.Era) *familyPatterns {
	name := g.Name(era)
	interjector := g.Name(era, "Beifall")
	if era == g.EraFlat {
		interjector = g.Seq(g.AbgMarker, g.Name(era))
	}

	keyword := func(body g.Fragment, closeExtra ...g.Fragment) *regexp.Regexp {
		return g.Seq(
			g.Open(),
			g.Named("delete", g.Seq(body, g.Prefix, g.Initiator)),
			g.Close(closeExtra...),
		).Compile()
	}

	shoutKeyword := g.Raw(`(?:und\s?|[Ee]rneute\s|[Aa]nhaltende\s|[Ee]rregte\s|[Vv]ielfache\s?)?(?:Zurufe?|Gegenrufe?|Rufe?)`)
	namedShouter := g.Seq(g.Prefix, g.Spaces, g.AbgMarker, name)

	// The faction bracket of the name grammar marks a second person; flat
	// names need the Abg. marker instead
	secondMarker := g.Opt(g.AbgMarker)
	if era == g.EraFlat {
		secondMarker = g.AbgMarker
	}

	return &familyPatterns{
		applause: keyword(g.Raw(`(?:(?:[Ll]ang)?[Aa]nhaltender\s(?:[Ll]ebhafter\s)?|[Ll]ebhafter\s|[Ee]rneuter\s|[Dd]emonstrativer\s|[Aa]llseitiger\s)?Beifall`)),

		personInterjection: g.Seq(
			g.Open(),
			g.Named("delete", g.Seq(
				interjector,
				g.Raw(`:\s`),
				g.Named("content", g.Raw(`[^\-)—–{}]*`)),
			)),
			g.Close(),
		).Compile(),

		shout: g.Seq(
			g.Open(shoutOpen),
			g.Named("delete", g.Seq(
				shoutKeyword,
				g.Alt(
					g.Seq(
						g.Alt(g.Raw(`:`), g.Seq(namedShouter, g.Raw(`:`))),
						g.Spaces,
						g.Named("content", g.Star(g.Text)),
					),
					g.Seq(g.Prefix, g.Initiator),
				),
			)),
			g.Close(),
		).Compile(),

		factionShout: g.Seq(
			g.Open(shoutOpen),
			g.Named("delete", g.Seq(
				g.Named("initiator", g.Plus(g.Text)),
				g.Raw(`:\s*`),
				g.Named("content", g.Plus(g.Text)),
			)),
			g.Close(),
		).Compile(),

		cheerfulness: keyword(g.Raw(`(?:[Gg]roße\s|[Aa]llgemeine\s)?Heiterkeit`)),
		objection:    keyword(g.Raw(`Widerspruch`)),
		laughter:     keyword(g.Raw(`Lachen`), g.Raw(`\sund\sZurufe\)`)),
		approval:     keyword(g.Raw(`(?:Sehr\srichtig[.!]?|Lebhafte\sZustimmung|Zustimmung|Sehr\swahr[.!]?|Bravo[\-—\s]?[Rr]ufe[.!]?|Bravo[.!]?|Sehr\sgut[.!]?)`)),
		disturbance:  keyword(g.Raw(`[Uu]nruhe`)),

		interruption: g.Seq(
			g.Open(),
			g.Named("delete", g.Raw(`Unterbrechung[^)]*`)),
			g.Close(),
		).Compile(),

		firstPerson: g.Seq(g.AbgMarker, name, g.PersonEnd).Compile(),
		secondPerson: g.Seq(
			g.Raw(`(?:\sund|sowie\sdes)\s+(?:des\s+|der\s+)?`),
			secondMarker,
			name,
			g.PersonEnd,
		).Compile(),
	}
}

// group returns the first non-empty capture among names
func group(re *regexp.Regexp, text string, loc []int, names ...string) string {
	for _, n := range names {
		i := re.SubexpIndex(n)
		if i < 0 || loc[2*i] < 0 {
			continue
		}
		if v := text[loc[2*i]:loc[2*i+1]]; v != "" {
			return v
		}
	}
	return ""
}

// span returns the byte offsets of a named capture, or -1, -1
func span(re *regexp.Regexp, loc []int, name string) (int, int) {
	i := re.SubexpIndex(name)
	if i < 0 {
		return -1, -1
	}
	return loc[2*i], loc[2*i+1]
}
