package resolve

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/zwischenruf/internal/model"
)

// Roster holds the politicians and government members of one electoral term
// with normalised names. It is read-only once built.
type Roster struct {
	Term        int
	Politicians []model.PoliticianRecord
	Government  []model.PoliticianRecord
}

// NewRoster normalises last names, first names and constituencies of the
// given records
func NewRoster(term int, politicians, government []model.PoliticianRecord) *Roster {
	return &Roster{
		Term:        term,
		Politicians: normalizeRecords(politicians),
		Government:  normalizeRecords(government),
	}
}

func normalizeRecords(records []model.PoliticianRecord) []model.PoliticianRecord {
	out := make([]model.PoliticianRecord, len(records))
	for i, p := range records {
		p.LastName = NormalizeName(p.LastName)
		p.FirstNames = normalizeTokens(p.FirstNames)
		p.Constituency = NormalizeName(p.Constituency)
		out[i] = p
	}
	return out
}

// RosterSet is the roster file: factions, politicians and government members
// across all electoral terms
type RosterSet struct {
	Factions    []model.Faction          `yaml:"factions"`
	Politicians []model.PoliticianRecord `yaml:"politicians"`
	Government  []model.PoliticianRecord `yaml:"government"`

	mu    sync.Mutex
	terms map[int]*Roster
	index *FactionIndex
}

// LoadRosterSet reads a roster file in YAML format
func LoadRosterSet(path string) (*RosterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var set RosterSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}

	for _, p := range set.Politicians {
		if p.LastName == "" {
			return nil, fmt.Errorf("roster %s: politician %d has no last name", path, p.ID)
		}
	}
	return &set, nil
}

// ForTerm returns the roster of one electoral term. Results are memoised;
// it is safe for concurrent use.
func (s *RosterSet) ForTerm(term int) *Roster {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.terms[term]; ok {
		return r
	}
	if s.terms == nil {
		s.terms = make(map[int]*Roster)
	}

	r := NewRoster(term, filterTerm(s.Politicians, term), filterTerm(s.Government, term))
	s.terms[term] = r
	return r
}

// FactionIndex returns the faction index of the set
func (s *RosterSet) FactionIndex() *FactionIndex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		s.index = NewFactionIndex(s.Factions)
	}
	return s.index
}

func filterTerm(records []model.PoliticianRecord, term int) []model.PoliticianRecord {
	var out []model.PoliticianRecord
	for _, p := range records {
		if p.InTerm(term) {
			out = append(out, p)
		}
	}
	return out
}
