package model

const (
	// UnresolvedID marks a record without a politician identity
	UnresolvedID int64 = -1
	// NoFaction marks a missing faction id
	NoFaction = -1
)

// Gender markers used by the roster
const (
	GenderFemale = "weiblich"
	GenderMale   = "männlich"
)

// PoliticianRecord is a roster entry of a known politician
type PoliticianRecord struct {
	ID             int64    `json:"id" yaml:"id"`
	LastName       string   `json:"last_name" yaml:"last_name"`
	FirstNames     []string `json:"first_names" yaml:"first_names"` // Lower-cased first-name tokens
	FactionID      int      `json:"faction_id" yaml:"faction_id"`
	Constituency   string   `json:"constituency" yaml:"constituency"`
	AcadTitle      string   `json:"acad_title,omitempty" yaml:"acad_title,omitempty"`
	Gender         string   `json:"gender,omitempty" yaml:"gender,omitempty"`
	Profession     string   `json:"profession,omitempty" yaml:"profession,omitempty"`
	ElectoralTerms []int    `json:"electoral_terms,omitempty" yaml:"electoral_terms,omitempty"`
}

// InTerm reports whether the politician served in the given electoral term.
// Entries without term coverage count as serving in every term.
func (p PoliticianRecord) InTerm(term int) bool {
	if len(p.ElectoralTerms) == 0 {
		return true
	}
	for _, t := range p.ElectoralTerms {
		if t == term {
			return true
		}
	}
	return false
}

// Faction is a roster faction with its numeric id
type Faction struct {
	ID           int    `json:"id" yaml:"id"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"` // Canonical name, e.g. "CDU/CSU"
	FullName     string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
}

// ContributionRow is a contribution prepared for identity resolution
type ContributionRow struct {
	ContributionRecord
	LastName      string   `json:"last_name"`
	FirstNames    []string `json:"first_names"`
	AcadTitle     string   `json:"acad_title"`
	Role          string   `json:"role,omitempty"` // Government role such as "Bundesminister"
	FactionID     int      `json:"faction_id"`
	ElectoralTerm int      `json:"electoral_term"`
}

// ResolvedContribution is a contribution row with its resolved identity
type ResolvedContribution struct {
	ContributionRow
	PoliticianID int64 `json:"politician_id"` // UnresolvedID when no identity applies
}

// Kinds of unresolved rows
const (
	UnresolvedAmbiguous    = "ambiguous"
	UnresolvedUnknown      = "unresolvable"
	UnresolvedMissingEntry = "missing_roster_entry"
)

// UnresolvedContribution is a named row the resolver could not attribute
type UnresolvedContribution struct {
	ContributionRow
	Kind       string `json:"kind"`
	Reason     string `json:"reason"`     // Why the cascade stopped
	Candidates int    `json:"candidates"` // Candidates left when the cascade stopped
}
