package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/zwischenruf/internal/model"
)

func newTestResolver() *Resolver {
	return NewResolver(model.DefaultConfig().Resolution)
}

func row(lastName string) model.ContributionRow {
	return model.ContributionRow{
		ContributionRecord: model.ContributionRecord{SpeechID: 1, Type: model.TypePersonInterjection, NameRaw: lastName},
		LastName:           lastName,
		FactionID:          model.NoFaction,
	}
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 10.0/11.0, Ratio("müller", "müler"), 1e-9)
	assert.Equal(t, 1.0, Ratio("schmidt", "schmidt"))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", ""))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "weiss", NormalizeName(" Weiß "))
	assert.Equal(t, "müller", NormalizeName("Müller"))
}

func TestResolveMember_AmbiguousLastName(t *testing.T) {
	roster := NewRoster(19, []model.PoliticianRecord{
		{ID: 1, LastName: "Müller", FactionID: 4},
		{ID: 2, LastName: "Müller", FactionID: 7},
	}, nil)

	_, err := newTestResolver().ResolveMember(row("Müller"), roster.Politicians)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguousIdentity))

	var ie *IdentityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 2, ie.Candidates)
}

func TestResolveMember_AmbiguousAfterConstituency(t *testing.T) {
	roster := NewRoster(19, []model.PoliticianRecord{
		{ID: 1, LastName: "Müller", FactionID: 4, Constituency: "Bremen"},
		{ID: 2, LastName: "Müller", FactionID: 7, Constituency: "Hamburg"},
	}, nil)

	_, err := newTestResolver().ResolveMember(row("Müller"), roster.Politicians)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguousIdentity), "got %v", err)

	var ie *IdentityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "constituency", ie.Step)
	assert.Equal(t, 2, ie.Candidates)

	resolved, unresolved := newTestResolver().Resolve([]model.ContributionRow{row("Müller")}, roster)
	assert.Equal(t, model.UnresolvedID, resolved[0].PoliticianID)
	require.Len(t, unresolved, 1)
	assert.Equal(t, model.UnresolvedAmbiguous, unresolved[0].Kind)
	assert.Equal(t, 2, unresolved[0].Candidates)
}

func TestResolveMember_EmptyRoster(t *testing.T) {
	_, err := newTestResolver().ResolveMember(row("Müller"), nil)
	assert.True(t, errors.Is(err, ErrMissingRosterEntry), "got %v", err)

	resolved, unresolved := newTestResolver().Resolve([]model.ContributionRow{row("Müller")}, NewRoster(19, nil, nil))
	assert.Equal(t, model.UnresolvedID, resolved[0].PoliticianID)
	require.Len(t, unresolved, 1)
	assert.Equal(t, model.UnresolvedMissingEntry, unresolved[0].Kind)
}

func TestResolveMember_FuzzyLastName(t *testing.T) {
	roster := NewRoster(19, []model.PoliticianRecord{
		{ID: 1, LastName: "Müller", FactionID: 4},
		{ID: 2, LastName: "Schmidt", FactionID: 7},
	}, nil)

	p, err := newTestResolver().ResolveMember(row("Müler"), roster.Politicians)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestResolveMember_ExactMatchShortCircuits(t *testing.T) {
	roster := NewRoster(19, []model.PoliticianRecord{
		{ID: 1, LastName: "Müller", FactionID: 4, Constituency: "Bremen"},
	}, nil)

	r := row("Müller")
	r.FactionID = 9
	r.Constituency = "Hamburg"

	p, err := newTestResolver().ResolveMember(r, roster.Politicians)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestResolveMember_Filters(t *testing.T) {
	politicians := []model.PoliticianRecord{
		{ID: 1, LastName: "Meyer", FirstNames: []string{"Hans"}, FactionID: 4, Constituency: "Bremen"},
		{ID: 2, LastName: "Meyer", FirstNames: []string{"Karl", "Heinz"}, FactionID: 4, Constituency: "Hamburg-Nord"},
		{ID: 3, LastName: "Meyer", FirstNames: []string{"Hans"}, FactionID: 7, Constituency: ""},
		{ID: 4, LastName: "Meyer", FirstNames: []string{"Anna"}, FactionID: 7, Constituency: "", Gender: model.GenderFemale},
	}
	roster := NewRoster(10, politicians, nil)

	tests := []struct {
		name  string
		setup func(*model.ContributionRow)
		want  int64
		err   error
	}{
		{
			name: "first names after faction",
			setup: func(r *model.ContributionRow) {
				r.FactionID = 4
				r.FirstNames = []string{"heinz"}
			},
			want: 2,
		},
		{
			name: "constituency similarity",
			setup: func(r *model.ContributionRow) {
				r.FactionID = 4
				r.Constituency = "Hamburg Nord"
			},
			want: 2,
		},
		{
			name: "empty constituency",
			setup: func(r *model.ContributionRow) {
				r.FirstNames = []string{"Hans"}
			},
			want: 3,
		},
		{
			name: "female form of address",
			setup: func(r *model.ContributionRow) {
				r.FactionID = 7
				r.AcadTitle = "Frau"
			},
			want: 4,
		},
		{
			name: "faction without candidates",
			setup: func(r *model.ContributionRow) {
				r.FactionID = 12
			},
			err: ErrMissingRosterEntry,
		},
		{
			name: "first names without candidates",
			setup: func(r *model.ContributionRow) {
				r.FactionID = 4
				r.FirstNames = []string{"Otto"}
			},
			err: ErrAmbiguousIdentity,
		},
		{
			name:  "still ambiguous",
			setup: func(r *model.ContributionRow) { r.FactionID = 7 },
			err:   ErrAmbiguousIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := row("Meyer")
			tt.setup(&r)

			p, err := newTestResolver().ResolveMember(r, roster.Politicians)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ID)
		})
	}
}

func TestResolveMember_Unresolvable(t *testing.T) {
	roster := NewRoster(19, []model.PoliticianRecord{{ID: 1, LastName: "Müller"}}, nil)

	_, err := newTestResolver().ResolveMember(row("Wagenknecht"), roster.Politicians)
	assert.True(t, errors.Is(err, ErrUnresolvableIdentity))

	_, err = newTestResolver().ResolveMember(row(" "), roster.Politicians)
	assert.True(t, errors.Is(err, ErrUnnamed))
}

func TestResolveMember_DuplicateEntriesOfOnePolitician(t *testing.T) {
	roster := NewRoster(19, []model.PoliticianRecord{
		{ID: 5, LastName: "Weiß", FactionID: 1},
		{ID: 5, LastName: "Weiss", FactionID: 1},
	}, nil)

	p, err := newTestResolver().ResolveMember(row("Weiß"), roster.Politicians)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
}

func TestResolve_Table(t *testing.T) {
	roster := NewRoster(19, []model.PoliticianRecord{
		{ID: 1, LastName: "Müller", FactionID: 4},
		{ID: 2, LastName: "Müller", FactionID: 7},
		{ID: 3, LastName: "Schmidt", FactionID: 7},
	}, nil)

	unnamed := row("")
	unnamed.Faction = "SPD"
	unnamed.FactionID = 7

	rows := []model.ContributionRow{row("Müller"), row("Schmidt"), unnamed}
	resolved, unresolved := newTestResolver().Resolve(rows, roster)

	require.Len(t, resolved, 3)
	assert.Equal(t, model.UnresolvedID, resolved[0].PoliticianID)
	assert.Equal(t, int64(3), resolved[1].PoliticianID)
	assert.Equal(t, 7, resolved[1].FactionID)
	assert.Equal(t, model.UnresolvedID, resolved[2].PoliticianID)

	require.Len(t, unresolved, 1)
	assert.Equal(t, "Müller", unresolved[0].LastName)
	assert.Equal(t, 2, unresolved[0].Candidates)
	assert.Equal(t, model.UnresolvedAmbiguous, unresolved[0].Kind)
	assert.Contains(t, unresolved[0].Reason, "ambiguous identity")
}

func TestResolveGovernment(t *testing.T) {
	members := NewRoster(12, nil, []model.PoliticianRecord{
		{ID: 9, LastName: "Schäuble"},
		{ID: 10, LastName: "Waigel"},
	}).Government

	r := row("Schäubel")
	r.Role = "Bundesminister"

	p, err := newTestResolver().ResolveGovernment(r, members)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)

	_, err = newTestResolver().ResolveGovernment(row("Kohl"), members)
	assert.True(t, errors.Is(err, ErrUnresolvableIdentity))
}

func TestResolve_GovernmentRole(t *testing.T) {
	roster := NewRoster(12, []model.PoliticianRecord{
		{ID: 1, LastName: "Meyer", Profession: "Bundesminister der Finanzen"},
		{ID: 2, LastName: "Meyer", Profession: "Rechtsanwalt"},
	}, nil)

	r := row("Meyer")
	r.Role = "Bundesministerin"

	resolved, unresolved := newTestResolver().Resolve([]model.ContributionRow{r}, roster)
	assert.Empty(t, unresolved)
	assert.Equal(t, int64(1), resolved[0].PoliticianID)
}

func TestFactionIndex(t *testing.T) {
	idx := NewFactionIndex([]model.Faction{
		{ID: 4, Abbreviation: "CDU/CSU"},
		{ID: 7, Abbreviation: "SPD", FullName: "Sozialdemokratische Partei Deutschlands"},
	})

	assert.Equal(t, 7, idx.ID("SPD"))
	assert.Equal(t, 7, idx.ID("spd"))
	assert.Equal(t, 7, idx.ID("Sozialdemokratische Partei Deutschlands"))
	assert.Equal(t, 4, idx.ID("CDU"))
	assert.Equal(t, model.NoFaction, idx.ID(""))
	assert.Equal(t, model.NoFaction, idx.ID("AfD"))
}

func TestLoadRosterSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	data := `factions:
  - id: 7
    abbreviation: SPD
politicians:
  - id: 1
    last_name: Brandt
    first_names: [Willy]
    faction_id: 7
    electoral_terms: [6, 7]
  - id: 2
    last_name: Schmidt
    first_names: [Helmut]
    faction_id: 7
    electoral_terms: [8]
government:
  - id: 2
    last_name: Schmidt
    electoral_terms: [8]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	set, err := LoadRosterSet(path)
	require.NoError(t, err)

	r7 := set.ForTerm(7)
	require.Len(t, r7.Politicians, 1)
	assert.Equal(t, "brandt", r7.Politicians[0].LastName)
	assert.Equal(t, []string{"willy"}, r7.Politicians[0].FirstNames)
	assert.Empty(t, r7.Government)
	assert.Same(t, r7, set.ForTerm(7))

	r8 := set.ForTerm(8)
	require.Len(t, r8.Government, 1)
	assert.Equal(t, 7, set.FactionIndex().ID("SPD"))
}

func TestLoadRosterSet_Errors(t *testing.T) {
	_, err := LoadRosterSet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("politicians:\n  - id: 1\n"), 0o644))
	_, err = LoadRosterSet(path)
	assert.Error(t, err)
}
