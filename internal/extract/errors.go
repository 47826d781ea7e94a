package extract

import (
	"errors"
	"fmt"
)

// ErrMalformedAnnotation is matched by every MalformedAnnotation
var ErrMalformedAnnotation = errors.New("malformed annotation")

// Reasons a bracket span is skipped
const (
	ReasonUnterminated = "unterminated bracket"
	ReasonTooDeep      = "nesting deeper than one level"
)

// MalformedAnnotation is a bracket span that could not be read
type MalformedAnnotation struct {
	Start  int    `json:"start"`
	End    int    `json:"end"` // End of text for unterminated spans
	Reason string `json:"reason"`
}

func (m MalformedAnnotation) Error() string {
	return fmt.Sprintf("malformed annotation at %d-%d: %s", m.Start, m.End, m.Reason)
}

// Is makes errors.Is(m, ErrMalformedAnnotation) hold
func (m MalformedAnnotation) Is(target error) bool {
	return target == ErrMalformedAnnotation
}
