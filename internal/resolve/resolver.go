package resolve

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/model"
)

// Default similarity thresholds
const (
	DefaultLastNameThreshold     = 0.7
	DefaultConstituencyThreshold = 0.7
	DefaultGovernmentThreshold   = 0.80
	DefaultProfessionThreshold   = 0.75
)

// Resolver attributes contribution rows to roster politicians. A row gets an
// id only when exactly one politician survives the cascade.
type Resolver struct {
	lastNameThreshold     float64
	constituencyThreshold float64
	governmentThreshold   float64
	professionThreshold   float64
	logger                logging.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for unresolved rows
func WithLogger(l logging.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a resolver; zero thresholds fall back to the defaults
func NewResolver(cfg model.ResolutionConfig, opts ...Option) *Resolver {
	r := &Resolver{
		lastNameThreshold:     orDefault(cfg.LastNameThreshold, DefaultLastNameThreshold),
		constituencyThreshold: orDefault(cfg.ConstituencyThreshold, DefaultConstituencyThreshold),
		governmentThreshold:   orDefault(cfg.GovernmentThreshold, DefaultGovernmentThreshold),
		professionThreshold:   orDefault(cfg.ProfessionThreshold, DefaultProfessionThreshold),
		logger:                logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// Resolve attributes every row. Rows without a last name keep
// model.UnresolvedID and are not reported as unresolved. Named rows the
// cascade cannot attribute are also returned in the unresolved table.
func (r *Resolver) Resolve(rows []model.ContributionRow, roster *Roster) ([]model.ResolvedContribution, []model.UnresolvedContribution) {
	resolved := make([]model.ResolvedContribution, 0, len(rows))
	var unresolved []model.UnresolvedContribution

	for _, row := range rows {
		out := model.ResolvedContribution{ContributionRow: row, PoliticianID: model.UnresolvedID}
		if strings.TrimSpace(row.LastName) == "" {
			resolved = append(resolved, out)
			continue
		}

		p, err := r.resolveRow(row, roster)
		if err != nil {
			candidates := 0
			var ie *IdentityError
			if errors.As(err, &ie) {
				candidates = ie.Candidates
			}
			r.logger.Debug("identity unresolved",
				logging.Int64("speech_id", row.SpeechID),
				logging.String("last_name", row.LastName),
				logging.Err(err),
			)
			unresolved = append(unresolved, model.UnresolvedContribution{
				ContributionRow: row,
				Kind:            unresolvedKind(err),
				Reason:          err.Error(),
				Candidates:      candidates,
			})
			resolved = append(resolved, out)
			continue
		}

		out.PoliticianID = p.ID
		if out.FactionID == model.NoFaction {
			out.FactionID = p.FactionID
		}
		resolved = append(resolved, out)
	}

	return resolved, unresolved
}

func unresolvedKind(err error) string {
	switch {
	case errors.Is(err, ErrAmbiguousIdentity):
		return model.UnresolvedAmbiguous
	case errors.Is(err, ErrMissingRosterEntry):
		return model.UnresolvedMissingEntry
	default:
		return model.UnresolvedUnknown
	}
}

// resolveRow tries the government variants first for rows with a role
func (r *Resolver) resolveRow(row model.ContributionRow, roster *Roster) (model.PoliticianRecord, error) {
	if row.Role != "" {
		if p, err := r.ResolveGovernment(row, roster.Government); err == nil {
			return p, nil
		}
		if p, err := r.ResolveByProfession(row, roster.Politicians, professionPattern(row.Role)); err == nil {
			return p, nil
		}
	}
	return r.ResolveMember(row, roster.Politicians)
}

// ResolveMember runs the parliament member cascade: exact last name, fuzzy
// last name, faction, first names, constituency, female form of address.
// It stops at the first step leaving one politician.
func (r *Resolver) ResolveMember(row model.ContributionRow, politicians []model.PoliticianRecord) (model.PoliticianRecord, error) {
	lastName := NormalizeName(row.LastName)
	if lastName == "" {
		return model.PoliticianRecord{}, &IdentityError{Step: "last name", Err: ErrUnnamed}
	}
	if len(politicians) == 0 {
		return model.PoliticianRecord{}, &IdentityError{Step: "roster", Err: ErrMissingRosterEntry}
	}

	// 1. Exact last name
	step := "last name"
	cands := filter(politicians, func(p model.PoliticianRecord) bool {
		return p.LastName == lastName
	})

	// 2. Fuzzy last name
	if len(cands) == 0 {
		step = "fuzzy last name"
		cands = r.fuzzyLastName(politicians, lastName, r.lastNameThreshold)
		if len(cands) == 0 {
			return model.PoliticianRecord{}, &IdentityError{Step: step, Err: ErrUnresolvableIdentity}
		}
	}
	if p, ok := single(cands); ok {
		return p, nil
	}

	// 3. Faction
	if row.FactionID >= 0 {
		step = "faction"
		before := cands
		cands = filter(cands, func(p model.PoliticianRecord) bool {
			return p.FactionID == row.FactionID
		})
		if len(cands) == 0 {
			return model.PoliticianRecord{}, &IdentityError{Step: step, Err: ErrMissingRosterEntry}
		}
		if p, done, err := settle(step, before, cands); done {
			return p, err
		}
	}

	// 4. First names
	if firstNames := normalizeTokens(row.FirstNames); len(firstNames) > 0 {
		step = "first names"
		before := cands
		cands = filter(cands, func(p model.PoliticianRecord) bool {
			return intersects(p.FirstNames, firstNames)
		})
		if p, done, err := settle(step, before, cands); done {
			return p, err
		}
	}

	// 5. Constituency; members who joined mid-term have none
	step = "constituency"
	before := cands
	if constituency := NormalizeName(row.Constituency); constituency != "" {
		cands = filter(cands, func(p model.PoliticianRecord) bool {
			return Ratio(p.Constituency, constituency) > r.constituencyThreshold
		})
	} else {
		cands = filter(cands, func(p model.PoliticianRecord) bool {
			return p.Constituency == ""
		})
	}
	if p, done, err := settle(step, before, cands); done {
		return p, err
	}

	// 6. Female form of address
	if strings.Contains(row.AcadTitle, "Frau") {
		step = "gender"
		before = cands
		cands = filter(cands, func(p model.PoliticianRecord) bool {
			return p.Gender == model.GenderFemale
		})
		if p, done, err := settle(step, before, cands); done {
			return p, err
		}
	}

	return model.PoliticianRecord{}, &IdentityError{Step: step, Candidates: distinct(cands), Err: ErrAmbiguousIdentity}
}

// ResolveGovernment matches a row against government members by exact or
// fuzzy last name
func (r *Resolver) ResolveGovernment(row model.ContributionRow, members []model.PoliticianRecord) (model.PoliticianRecord, error) {
	cands := r.lastNameCandidates(members, NormalizeName(row.LastName), r.governmentThreshold)
	if len(cands) == 0 {
		return model.PoliticianRecord{}, &IdentityError{Step: "government", Err: ErrUnresolvableIdentity}
	}
	if p, ok := single(cands); ok {
		return p, nil
	}
	return model.PoliticianRecord{}, &IdentityError{Step: "government", Candidates: distinct(cands), Err: ErrAmbiguousIdentity}
}

// ResolveByProfession matches a row by exact or fuzzy last name and, when
// that is ambiguous, by profession
func (r *Resolver) ResolveByProfession(row model.ContributionRow, politicians []model.PoliticianRecord, profession *regexp.Regexp) (model.PoliticianRecord, error) {
	cands := r.lastNameCandidates(politicians, NormalizeName(row.LastName), r.professionThreshold)
	if len(cands) == 0 {
		return model.PoliticianRecord{}, &IdentityError{Step: "profession last name", Err: ErrUnresolvableIdentity}
	}
	if p, ok := single(cands); ok {
		return p, nil
	}

	before := cands
	cands = filter(cands, func(p model.PoliticianRecord) bool {
		return profession != nil && profession.MatchString(p.Profession)
	})
	if p, done, err := settle("profession", before, cands); done {
		return p, err
	}
	return model.PoliticianRecord{}, &IdentityError{Step: "profession", Candidates: distinct(cands), Err: ErrAmbiguousIdentity}
}

// lastNameCandidates returns exact last-name matches, or fuzzy ones when
// there are none
func (r *Resolver) lastNameCandidates(records []model.PoliticianRecord, lastName string, threshold float64) []model.PoliticianRecord {
	cands := filter(records, func(p model.PoliticianRecord) bool {
		return p.LastName == lastName
	})
	if len(cands) == 0 {
		cands = r.fuzzyLastName(records, lastName, threshold)
	}
	return cands
}

func (r *Resolver) fuzzyLastName(records []model.PoliticianRecord, lastName string, threshold float64) []model.PoliticianRecord {
	return filter(records, func(p model.PoliticianRecord) bool {
		return Ratio(p.LastName, lastName) >= threshold
	})
}

// professionPattern matches professions naming the role, e.g.
// "Bundesministerin" for "Bundesminister"
func professionPattern(role string) *regexp.Regexp {
	role = strings.TrimSuffix(strings.TrimSpace(role), "in")
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(role))
}

// settle reports whether the cascade ends at this step: with the single
// politician left, or as ambiguous between the candidates before the filter
// when none is left
func settle(step string, before, cands []model.PoliticianRecord) (model.PoliticianRecord, bool, error) {
	if p, ok := single(cands); ok {
		return p, true, nil
	}
	if len(cands) == 0 {
		return model.PoliticianRecord{}, true, &IdentityError{Step: step, Candidates: distinct(before), Err: ErrAmbiguousIdentity}
	}
	return model.PoliticianRecord{}, false, nil
}

// single returns the politician when all candidates share one id. Rosters
// may list a politician once per term.
func single(cands []model.PoliticianRecord) (model.PoliticianRecord, bool) {
	if len(cands) == 0 || distinct(cands) != 1 {
		return model.PoliticianRecord{}, false
	}
	return cands[0], true
}

func distinct(cands []model.PoliticianRecord) int {
	ids := make(map[int64]struct{}, len(cands))
	for _, p := range cands {
		ids[p.ID] = struct{}{}
	}
	return len(ids)
}

func filter(records []model.PoliticianRecord, keep func(model.PoliticianRecord) bool) []model.PoliticianRecord {
	var out []model.PoliticianRecord
	for _, p := range records {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
