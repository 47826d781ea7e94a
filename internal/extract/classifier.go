package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/zwischenruf/internal/grammar"
	"github.com/ppiankov/zwischenruf/internal/model"
)

// SpanContext identifies the span a record is extracted from
type SpanContext struct {
	SpeechID      int64
	Session       int
	Position      int // Ordinal of the span
	FlatEraBefore int // 0 selects the default era boundary
}

func (sc SpanContext) era() grammar.Era {
	return grammar.EraForSession(sc.Session, sc.FlatEraBefore)
}

func (sc SpanContext) term() int {
	return sc.Session / model.SessionsPerTerm
}

// record is the single place records are built; it trims honorifics
// from the name
func (sc SpanContext) record(cat Category, name, faction, constituency, content string) model.ContributionRecord {
	return model.ContributionRecord{
		SpeechID:     sc.SpeechID,
		Type:         cat.Type(),
		NameRaw:      CleanPersonName(name),
		Faction:      strings.TrimSpace(faction),
		Constituency: strings.TrimSpace(constituency),
		Content:      strings.TrimSpace(content),
		TextPosition: sc.Position,
	}
}

// Classifier runs the nine pattern families over the view of one span
type Classifier struct {
	initiators *InitiatorResolver
}

// NewClassifier creates a classifier with its initiator resolver
func NewClassifier() *Classifier {
	c := &Classifier{}
	c.initiators = &InitiatorResolver{classifier: c}
	return c
}

// Classify runs every family in fixed order, each on the text left over by
// the previous one, and returns the records in discovery order
func (c *Classifier) Classify(view string, sc SpanContext) []model.ContributionRecord {
	var out []model.ContributionRecord
	for _, cat := range categories {
		var recs []model.ContributionRecord
		view, recs = c.run(cat, view, sc)
		out = append(out, recs...)
	}
	return out
}

// run dispatches to the extractor of one family
func (c *Classifier) run(cat Category, text string, sc SpanContext) (string, []model.ContributionRecord) {
	p := patternsByEra[sc.era()]
	switch cat {
	case Applause:
		return c.keyword(cat, p.applause, text, sc)
	case PersonInterjection:
		return c.personInterjection(p.personInterjection, text, sc)
	case Shout:
		return c.shout(p, text, sc)
	case Cheerfulness:
		return c.keyword(cat, p.cheerfulness, text, sc)
	case Objection:
		return c.keyword(cat, p.objection, text, sc)
	case Laughter:
		return c.keyword(cat, p.laughter, text, sc)
	case Approval:
		return c.keyword(cat, p.approval, text, sc)
	case Interruption:
		return c.interruption(p.interruption, text, sc)
	case Disturbance:
		return c.keyword(cat, p.disturbance, text, sc)
	}
	return text, nil
}

// keyword extracts a "<keyword> <prefix> <initiators>" family
func (c *Classifier) keyword(cat Category, re *regexp.Regexp, text string, sc SpanContext) (string, []model.ContributionRecord) {
	var out []model.ContributionRecord
	text = consume(re, text, func(text string, loc []int) {
		out = append(out, c.initiators.Resolve(cat, group(re, text, loc, "initiator"), sc)...)
	})
	return text, out
}

func (c *Classifier) personInterjection(re *regexp.Regexp, text string, sc SpanContext) (string, []model.ContributionRecord) {
	var out []model.ContributionRecord
	text = consume(re, text, func(text string, loc []int) {
		out = append(out, sc.record(PersonInterjection,
			group(re, text, loc, "name_raw"),
			canonicalFaction(group(re, text, loc, "faction")),
			group(re, text, loc, "constituency", "constituency2", "constituency3"),
			group(re, text, loc, "content"),
		))
	})
	return text, out
}

func (c *Classifier) shout(p *familyPatterns, text string, sc SpanContext) (string, []model.ContributionRecord) {
	var out []model.ContributionRecord
	re := p.shout
	text = consume(re, text, func(text string, loc []int) {
		if start, end := span(re, loc, "initiator"); start >= 0 && strings.TrimSpace(text[start:end]) != "" {
			out = append(out, c.initiators.Resolve(Shout, text[start:end], sc)...)
			return
		}
		out = append(out, sc.record(Shout,
			group(re, text, loc, "name_raw"),
			canonicalFaction(group(re, text, loc, "faction")),
			group(re, text, loc, "constituency", "constituency2", "constituency3"),
			group(re, text, loc, "content"),
		))
	})

	// "<faction phrase>: <words>" without a shout keyword
	re = p.factionShout
	text = consume(re, text, func(text string, loc []int) {
		phrase := group(re, text, loc, "initiator")
		content := group(re, text, loc, "content")
		for _, f := range grammar.Factions() {
			start, end, ok := findFaction(f.Pattern, phrase)
			if !ok {
				continue
			}
			out = append(out, sc.record(Shout, "", f.Name, "", content))
			phrase = phrase[:start] + phrase[end:]
		}
	})
	return text, out
}

func (c *Classifier) interruption(re *regexp.Regexp, text string, sc SpanContext) (string, []model.ContributionRecord) {
	var out []model.ContributionRecord
	text = consume(re, text, func(text string, loc []int) {
		out = append(out, sc.record(Interruption, "", "", "", group(re, text, loc, "delete")))
	})
	return text, out
}

// consume calls fn for each match of re and replaces its "delete" group
// with a single space. Searching resumes at the replacement so a closing
// delimiter can open the next match.
func consume(re *regexp.Regexp, text string, fn func(text string, loc []int)) string {
	pos := 0
	for pos < len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}

		start, end := span(re, loc, "delete")
		if start < 0 || end <= start {
			break
		}
		fn(text, loc)
		text = text[:start] + " " + text[end:]
		pos = start
	}
	return text
}
