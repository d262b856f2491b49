package game

import (
	"fmt"
	"strings"
)

// Status is the lifecycle of a session.
type Status string

const (
	// Playing accepts reveals and flags.
	Playing Status = "playing"
	// Won means every non-mine cell was revealed.
	Won Status = "won"
	// Lost means a mine was revealed.
	Lost Status = "lost"
)

var allowedTransitions = map[Status]map[Status]struct{}{
	Playing: {
		Won:  {},
		Lost: {},
	},
}

// Terminal reports whether no further transitions leave s.
func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}

// IllegalTransitionError is returned for a disallowed status change.
type IllegalTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		reason = "illegal transition for game lifecycle"
	}
	return fmt.Sprintf("cannot transition game from %q to %q: %s", e.From, e.To, reason)
}

// Is enables errors.Is checks for illegal transition failures.
func (e *IllegalTransitionError) Is(target error) bool {
	_, ok := target.(*IllegalTransitionError)
	return ok
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

func transition(from, to Status) error {
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}
