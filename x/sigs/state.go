package sigs

import "fmt"

// State is the lifecycle state of a pending transaction.
type State int

const (
	Created State = iota
	Collecting
	QuorumReached
	Combined
	Submitted
	Cancelled
)

var stateNames = map[State]string{
	Created:       "created",
	Collecting:    "collecting",
	QuorumReached: "quorum_reached",
	Combined:      "combined",
	Submitted:     "submitted",
	Cancelled:     "cancelled",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// IsTerminal returns true for states that do not allow any transition.
func (s State) IsTerminal() bool {
	return s == Submitted || s == Cancelled
}

// transitions lists all allowed state changes. No transition skips a state
// forward.
var transitions = map[State][]State{
	Created:       {Collecting, Cancelled},
	Collecting:    {QuorumReached, Cancelled},
	QuorumReached: {Combined, Cancelled},
	Combined:      {Submitted},
}

// CanTransition returns true if the state machine allows moving from s to
// given state.
func (s State) CanTransition(to State) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}
