package extract

import (
	"strings"

	"github.com/ppiankov/zwischenruf/internal/model"
)

// Category is one of the nine contribution pattern families
type Category int

const (
	Applause Category = iota
	PersonInterjection
	Shout
	Cheerfulness
	Objection
	Laughter
	Approval
	Interruption
	Disturbance
)

// categories lists the families in the order they run on a span
var categories = []Category{
	Applause,
	PersonInterjection,
	Shout,
	Cheerfulness,
	Objection,
	Laughter,
	Approval,
	Interruption,
	Disturbance,
}

// Type returns the record tag of the category
func (c Category) Type() model.ContributionType {
	switch c {
	case Applause:
		return model.TypeApplause
	case PersonInterjection:
		return model.TypePersonInterjection
	case Shout:
		return model.TypeShout
	case Cheerfulness:
		return model.TypeCheerfulness
	case Objection:
		return model.TypeObjection
	case Laughter:
		return model.TypeLaughter
	case Approval:
		return model.TypeApproval
	case Interruption:
		return model.TypeInterruption
	case Disturbance:
		return model.TypeDisturbance
	}
	return ""
}

func (c Category) String() string { return string(c.Type()) }

// categoryForKeyword maps a keyword found inside an initiator phrase to the
// family that extracts it
func categoryForKeyword(keyword string) (Category, bool) {
	switch strings.ToLower(keyword) {
	case "beifall":
		return Applause, true
	case "zuruf", "gegenruf", "ruf":
		return Shout, true
	case "heiterkeit":
		return Cheerfulness, true
	case "widerspruch":
		return Objection, true
	case "lachen":
		return Laughter, true
	case "zustimmung":
		return Approval, true
	case "unterbrechung":
		return Interruption, true
	case "unruhe":
		return Disturbance, true
	}
	return 0, false
}
