package quote

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a quote. The only legal transition is
// Draft to Invoiced; Invoiced is terminal.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusInvoiced Status = "Invoiced"
)

// ErrAlreadyInvoiced is returned when a transition is attempted from the
// terminal Invoiced state.
var ErrAlreadyInvoiced = errors.New("quote is already invoiced")

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInvoiced:
		return true
	}
	return false
}

// Transition checks that moving from s to the target status is legal. The
// match on the current state is exhaustive so an unknown stored status is
// an error rather than silently accepted.
func (s Status) Transition(to Status) error {
	switch s {
	case StatusDraft:
		if to == StatusInvoiced {
			return nil
		}
		return fmt.Errorf("cannot transition quote from %q to %q", s, to)
	case StatusInvoiced:
		return ErrAlreadyInvoiced
	default:
		return fmt.Errorf("unknown quote status %q", s)
	}
}
