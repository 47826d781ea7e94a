package grammar

// Characters that never occur in free text of an annotation
const textExcluded = "–—:(){}[]\n"

// Characters that end a single word of a person name
const nameExcluded = textExcluded + " \t\r,"

var (
	// Text is one character of free annotation text
	Text = NotIn(textExcluded)

	// Spaces is optional whitespace
	Spaces = Raw(`\s*`)

	// AbgMarker is the "Abg." marker introducing a member of parliament
	AbgMarker = Raw(`Abg\s?\.\s?`)

	// BracketOpen and BracketClose delimit factions and constituencies
	BracketOpen  = Raw(`[(\[{]`)
	BracketClose = Raw(`[)\]}]`)

	// Prefix is the preposition between a keyword and its initiators.
	// Longer alternatives come first so "bei Abgeordneten der" wins over
	// "bei Abgeordneten".
	Prefix = Raw(`\b(?:\s*bei\s+Abgeordneten\s+der|\s*bei\s+Abgeordneten|\s*bei\s+der|\s*beim|\s*im|\s*des|)\b`)

	// Initiator is free text up to a colon or a dash surrounded by spaces
	Initiator = Seq(
		Named("initiator", Star(Alt(
			Raw(`[^:\s]`),
			Raw(`\s+[^:\s\-–—]`),
			Raw(`\s+[\-–—][^:\s]`),
		))),
		Spaces,
	)

	// PersonEnd follows a person name inside an initiator phrase. A name
	// directly followed by a colon introduces spoken words instead.
	PersonEnd = Raw(`(?:\s|$|[)\]}])`)
)

// Open is the delimiter in front of a keyword: an opening parenthesis or a
// dash separating several asides within one bracket
func Open(extra ...Fragment) Fragment {
	alts := []Fragment{
		Raw(`\(`),
		Raw(`[\-–—]\.?\s`),
		Raw(`\s[\-–—]`),
		Raw(`[–—]`),
	}
	return Alt(append(alts, extra...)...)
}

// Close is the delimiter after a contribution: the closing parenthesis, a
// brace of a placeholder, or a dash starting the next aside
func Close(extra ...Fragment) Fragment {
	alts := []Fragment{
		Raw(`\)`),
		Raw(`\{`),
		Raw(`[\-–—][^()]+\)`),
	}
	return Alt(append(alts, extra...)...)
}

// Era selects the name grammar of a transcript
type Era int

const (
	// EraFaction transcripts name the faction next to each person
	EraFaction Era = iota
	// EraFlat transcripts use "name, constituency" without faction
	EraFlat
)

// DefaultFlatEraBefore is the first session printed with factions
const DefaultFlatEraBefore = 7115

// EraForSession returns the era of a session; flatBefore <= 0 selects
// DefaultFlatEraBefore
func EraForSession(session, flatBefore int) Era {
	if flatBefore <= 0 {
		flatBefore = DefaultFlatEraBefore
	}
	if session < flatBefore {
		return EraFlat
	}
	return EraFaction
}

func (e Era) String() string {
	if e == EraFlat {
		return "flat"
	}
	return "faction"
}

// Name is the person-name grammar of an era. It captures name_raw, faction
// (faction era only) and constituency, constituency2, constituency3.
// The first word of the name is never one of firstExcluded.
func Name(era Era, firstExcluded ...string) Fragment {
	word := WordExcept(nameExcluded, "und", "sowie")
	first := WordExcept(nameExcluded, append([]string{"und", "sowie"}, firstExcluded...)...)

	nameRaw := Named("name_raw", Seq(first, Star(Seq(Raw(`[ \t]+`), word))))
	commaConstituency := Opt(Seq(
		Raw(`\s*,\s*`),
		Named("constituency", Seq(word, Star(Seq(Raw(`[ \t]+`), word)))),
	))
	bracketed := func(name string, body Fragment) Fragment {
		return Seq(Spaces, BracketOpen, Named(name, body), BracketClose)
	}

	if era == EraFlat {
		return Seq(nameRaw, commaConstituency, Opt(bracketed("constituency2", Plus(Text))))
	}
	return Seq(
		nameRaw,
		commaConstituency,
		Star(bracketed("constituency2", Plus(Text))),
		bracketed("faction", Star(Text)),
		Star(bracketed("constituency3", Plus(Text))),
	)
}
