package model

import "time"

// Report summarizes one batch run
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Speeches  int             `json:"speeches"` // Speeches submitted
	Failed    []SpeechFailure `json:"failed,omitempty"`
	Counts    map[string]int  `json:"counts"`    // Contributions per type
	Malformed int             `json:"malformed"` // Skipped bracket spans

	Identities IdentityCounts `json:"identities"`
}

// SpeechFailure records a speech whose processing failed
type SpeechFailure struct {
	SpeechID int64  `json:"speech_id"`
	Error    string `json:"error"`
}

// IdentityCounts tallies identity resolution outcomes
type IdentityCounts struct {
	Resolved     int `json:"resolved"`
	Ambiguous    int `json:"ambiguous"`
	Unresolvable int `json:"unresolvable"`
	Unnamed      int `json:"unnamed"` // Faction-level records without a person
}

// Contributions returns the total number of contributions in the report
func (r *Report) Contributions() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}
