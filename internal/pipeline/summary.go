package pipeline

import (
	"time"

	"github.com/ppiankov/zwischenruf/internal/model"
)

// Summarize aggregates the results of a run. Failed speeches are counted in
// the total but contribute no records.
func Summarize(runID string, startedAt time.Time, results []*SpeechResult, failures []model.SpeechFailure) *model.Report {
	report := &model.Report{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Speeches:   len(failures),
		Failed:     failures,
		Counts:     make(map[string]int, len(model.AllContributionTypes())),
	}

	for _, t := range model.AllContributionTypes() {
		report.Counts[string(t)] = 0
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		report.Speeches++
		for _, c := range r.Extraction.Contributions {
			report.Counts[string(c.Type)]++
		}
		report.Malformed += len(r.Extraction.Malformed)

		ids := CountIdentities(r)
		report.Identities.Resolved += ids.Resolved
		report.Identities.Ambiguous += ids.Ambiguous
		report.Identities.Unresolvable += ids.Unresolvable
		report.Identities.Unnamed += ids.Unnamed
	}

	return report
}
