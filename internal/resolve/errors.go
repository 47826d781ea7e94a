package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousIdentity means the cascade ended with several candidates
	ErrAmbiguousIdentity = errors.New("ambiguous identity")
	// ErrUnresolvableIdentity means no roster name is close enough
	ErrUnresolvableIdentity = errors.New("unresolvable identity")
	// ErrMissingRosterEntry means the term roster is empty or has no
	// candidate in the row's faction
	ErrMissingRosterEntry = errors.New("missing roster entry")
	// ErrUnnamed means the row has no last name to resolve
	ErrUnnamed = errors.New("row has no last name")
)

// IdentityError reports where and why the cascade stopped for a row
type IdentityError struct {
	Step       string // Last cascade step applied
	Candidates int    // Distinct politicians left
	Err        error
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("%v after %s (%d candidates)", e.Err, e.Step, e.Candidates)
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}
