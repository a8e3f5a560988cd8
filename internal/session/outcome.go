package session

import "errors"

// ErrOutcomeAlreadySet is returned when a terminal outcome is set twice
var ErrOutcomeAlreadySet = errors.New("session outcome already set")

// Outcome is the terminal result of a ranking session
type Outcome int

const (
	Pending Outcome = iota
	Saved
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Terminal holds an outcome that can be set exactly once
type Terminal struct {
	outcome Outcome
}

// Set records the outcome. Pending is not a terminal value and is rejected.
func (t *Terminal) Set(o Outcome) error {
	if o == Pending {
		return errors.New("pending is not a terminal outcome")
	}
	if t.outcome != Pending {
		return ErrOutcomeAlreadySet
	}
	t.outcome = o
	return nil
}

// Outcome returns the recorded outcome
func (t *Terminal) Outcome() Outcome {
	return t.outcome
}

// Done reports whether an outcome has been recorded
func (t *Terminal) Done() bool {
	return t.outcome != Pending
}
