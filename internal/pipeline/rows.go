package pipeline

import (
	"github.com/ppiankov/zwischenruf/internal/extract"
	"github.com/ppiankov/zwischenruf/internal/model"
	"github.com/ppiankov/zwischenruf/internal/resolve"
)

// BuildRows splits the names of extracted records and looks up faction ids.
// A nil index leaves every faction id at model.NoFaction.
func BuildRows(records []model.ContributionRecord, index *resolve.FactionIndex, term int) []model.ContributionRow {
	rows := make([]model.ContributionRow, 0, len(records))
	for _, r := range records {
		name := extract.SplitName(r.NameRaw)
		rows = append(rows, model.ContributionRow{
			ContributionRecord: r,
			LastName:           name.LastName,
			FirstNames:         name.FirstNames,
			AcadTitle:          name.AcadTitle,
			Role:               name.Role,
			FactionID:          index.ID(r.Faction),
			ElectoralTerm:      term,
		})
	}
	return rows
}

// CountIdentities tallies the resolution outcomes of one speech
func CountIdentities(r *SpeechResult) model.IdentityCounts {
	var c model.IdentityCounts
	for _, row := range r.Resolved {
		switch {
		case row.PoliticianID != model.UnresolvedID:
			c.Resolved++
		case row.LastName == "":
			c.Unnamed++
		}
	}
	for _, u := range r.Unresolved {
		if u.Kind == model.UnresolvedAmbiguous {
			c.Ambiguous++
		} else {
			c.Unresolvable++
		}
	}
	return c
}
