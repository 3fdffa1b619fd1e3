package plan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("payment plan not found")
	// ErrAlreadyAccepted distinguishes the per-deal uniqueness violation
	// from a generic conflict; the data layer backs it with a unique index.
	ErrAlreadyAccepted = errors.New("deal already has an accepted plan")
	ErrInvalidInput    = errors.New("invalid payment plan input")
)

// StateConflictError reports an action attempted from a status it is not
// legal in. Allowed carries the statuses the plan can move to so clients can
// retry sensibly instead of string-matching messages.
type StateConflictError struct {
	Action  string
	Current Status
	Allowed []Status
}

func (e *StateConflictError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot %s a plan in status %s", e.Action, e.Current)
	}
	next := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		next[i] = string(s)
	}
	return fmt.Sprintf("cannot %s a plan in status %s (allowed next: %s)", e.Action, e.Current, strings.Join(next, ", "))
}

// AsStateConflict unwraps a StateConflictError if err carries one.
func AsStateConflict(err error) (*StateConflictError, bool) {
	var sc *StateConflictError
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}
