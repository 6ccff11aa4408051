package refresh

import (
	"errors"
	"fmt"
)

// State is the scheduler's position in its lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateOwnedPass    State = "owned-pass"
	StateUnownedPass  State = "unowned-pass"
	StateCheckpointed State = "checkpointed"
	StateComplete     State = "complete"
)

// ErrInvalidTransition is returned for a transition the table does not allow.
var ErrInvalidTransition = errors.New("invalid refresh state transition")

var transitions = map[State]map[State]struct{}{
	StateIdle: {
		StateOwnedPass:   {},
		StateUnownedPass: {},
		StateComplete:    {},
	},
	StateOwnedPass: {
		StateUnownedPass:  {},
		StateCheckpointed: {},
		StateComplete:     {},
		StateIdle:         {},
	},
	StateUnownedPass: {
		StateCheckpointed: {},
		StateComplete:     {},
		StateIdle:         {},
	},
	StateCheckpointed: {
		StateOwnedPass:   {},
		StateUnownedPass: {},
		StateComplete:    {},
		StateIdle:        {},
	},
	StateComplete: {
		StateOwnedPass:   {},
		StateUnownedPass: {},
		StateComplete:    {},
		StateIdle:        {},
	},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

func checkTransition(from, to State) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
