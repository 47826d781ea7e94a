package extract

import (
	"strconv"

	"github.com/ppiankov/zwischenruf/internal/model"
)

// PositionMode selects how span ordinals are numbered
type PositionMode int

const (
	// PositionsReversed numbers spans total-1-k for the k-th span processed
	// from the end, which is reading order
	PositionsReversed PositionMode = iota
	// PositionsForward numbers spans in processing order, last span first
	PositionsForward
)

// Located is the outcome of locating the annotations of a text
type Located struct {
	CleanedText string
	Spans       []model.AnnotationSpan // Reading order
	Malformed   []MalformedAnnotation
}

// Locator finds bracket spans and replaces them with ({N}) placeholders
type Locator struct {
	mode PositionMode
}

// NewLocator creates a locator numbering spans with mode
func NewLocator(mode PositionMode) *Locator {
	return &Locator{mode: mode}
}

// Locate scans text for balanced spans with at most one nested level and
// replaces each with its placeholder, last span first so earlier offsets
// stay valid. Existing placeholders are left alone.
func (l *Locator) Locate(text string) Located {
	bounds, malformed := scanBrackets(text)

	total := len(bounds)
	spans := make([]model.AnnotationSpan, total)
	cleaned := text
	for processed := 0; processed < total; processed++ {
		k := total - 1 - processed
		b := bounds[k]

		ordinal := processed
		if l.mode == PositionsReversed {
			ordinal = total - 1 - processed
		}

		spans[k] = model.AnnotationSpan{
			Ordinal: ordinal,
			Start:   b[0],
			End:     b[1],
			Content: text[b[0]:b[1]],
		}
		cleaned = cleaned[:b[0]] + "({" + strconv.Itoa(ordinal) + "})" + cleaned[b[1]:]
	}

	return Located{CleanedText: cleaned, Spans: spans, Malformed: malformed}
}

// scanBrackets returns the bounds of well-formed spans in reading order.
// Existing placeholders count as spans only next to at least one real span,
// so their ordinals cannot collide with new ones.
func scanBrackets(text string) ([][2]int, []MalformedAnnotation) {
	var bounds [][2]int
	var malformed []MalformedAnnotation
	fresh := 0

	for i := 0; i < len(text); {
		if text[i] != '(' {
			i++
			continue
		}

		end, reason := matchBracket(text, i)
		switch reason {
		case "":
			if !placeholder.MatchString(text[i:end]) {
				fresh++
			}
			bounds = append(bounds, [2]int{i, end})
			i = end
		case ReasonTooDeep:
			malformed = append(malformed, MalformedAnnotation{Start: i, End: end, Reason: reason})
			i = end
		default:
			// Unterminated: inner spans may still be complete
			malformed = append(malformed, MalformedAnnotation{Start: i, End: end, Reason: reason})
			i++
		}
	}
	if fresh == 0 {
		return nil, malformed
	}
	return bounds, malformed
}

// matchBracket finds the bracket closing the one at start
func matchBracket(text string, start int) (int, string) {
	depth, deepest := 0, 0
	for j := start; j < len(text); j++ {
		switch text[j] {
		case '(':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case ')':
			depth--
			if depth == 0 {
				if deepest > 2 {
					return j + 1, ReasonTooDeep
				}
				return j + 1, ""
			}
		}
	}
	return len(text), ReasonUnterminated
}
