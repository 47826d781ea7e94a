package model

// ContributionType is the category tag of an extracted contribution
type ContributionType string

const (
	TypeApplause           ContributionType = "Beifall"
	TypePersonInterjection ContributionType = "Personen-Einruf"
	TypeShout              ContributionType = "Zuruf"
	TypeCheerfulness       ContributionType = "Heiterkeit"
	TypeObjection          ContributionType = "Widerspruch"
	TypeLaughter           ContributionType = "Lachen"
	TypeApproval           ContributionType = "Zustimmung"
	TypeInterruption       ContributionType = "Unterbrechung"
	TypeDisturbance        ContributionType = "Unruhe"
)

// AllContributionTypes lists every contribution type in extraction order
func AllContributionTypes() []ContributionType {
	return []ContributionType{
		TypeApplause,
		TypePersonInterjection,
		TypeShout,
		TypeCheerfulness,
		TypeObjection,
		TypeLaughter,
		TypeApproval,
		TypeInterruption,
		TypeDisturbance,
	}
}

// AnnotationSpan is one balanced bracket span found in a speech
type AnnotationSpan struct {
	Ordinal int    `json:"ordinal"` // Placeholder number, unique within the speech
	Start   int    `json:"start"`   // Byte offset of the opening bracket
	End     int    `json:"end"`     // Byte offset just past the closing bracket
	Content string `json:"content"` // Verbatim span text including brackets
}

// ContributionRecord is one attributed contribution extracted from a span
type ContributionRecord struct {
	SpeechID     int64            `json:"speech_id"`
	Type         ContributionType `json:"type"`
	NameRaw      string           `json:"name_raw"`     // Trimmed person name, empty for faction-level records
	Faction      string           `json:"faction"`      // Canonical faction name or empty
	Constituency string           `json:"constituency"` // Constituency as written, or empty
	Content      string           `json:"content"`      // Spoken words or directional cue, may be empty
	TextPosition int              `json:"text_position"`
}

// SimplifiedContribution keeps the verbatim span for a placeholder
type SimplifiedContribution struct {
	TextPosition int    `json:"text_position"`
	Content      string `json:"content"` // Verbatim span text including brackets
	SpeechID     int64  `json:"speech_id"`
}
