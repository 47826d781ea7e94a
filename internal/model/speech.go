package model

// SessionsPerTerm relates session numbers to electoral terms (19001 → term 19)
const SessionsPerTerm = 1000

// Speech is a single speech of a plenary session transcript
type Speech struct {
	ID      int64  `json:"id"`      // Unique speech identifier
	Session int    `json:"session"` // Session number, e.g. 19001
	Text    string `json:"text"`    // Raw transcript text with bracketed asides
}

// ElectoralTerm derives the electoral term from the session number
func (s Speech) ElectoralTerm() int {
	return s.Session / SessionsPerTerm
}
