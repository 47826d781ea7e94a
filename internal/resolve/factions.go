package resolve

import (
	"strings"

	"github.com/ppiankov/zwischenruf/internal/grammar"
	"github.com/ppiankov/zwischenruf/internal/model"
)

// FactionIndex maps faction names to roster faction ids
type FactionIndex struct {
	ids map[string]int
}

// NewFactionIndex indexes factions by abbreviation and full name
func NewFactionIndex(factions []model.Faction) *FactionIndex {
	idx := &FactionIndex{ids: make(map[string]int, 2*len(factions))}
	for _, f := range factions {
		if f.Abbreviation != "" {
			idx.ids[strings.ToLower(f.Abbreviation)] = f.ID
		}
		if f.FullName != "" {
			idx.ids[strings.ToLower(f.FullName)] = f.ID
		}
	}
	return idx
}

// ID returns the id of the named faction, or model.NoFaction. Names the
// index does not know are tried again in their canonical spelling.
func (idx *FactionIndex) ID(name string) int {
	name = strings.TrimSpace(name)
	if name == "" || idx == nil {
		return model.NoFaction
	}
	if id, ok := idx.ids[strings.ToLower(name)]; ok {
		return id
	}
	if canonical := grammar.CanonicalFaction(name); canonical != "" {
		if id, ok := idx.ids[strings.ToLower(canonical)]; ok {
			return id
		}
	}
	return model.NoFaction
}
