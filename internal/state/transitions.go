package state

// validTransitions lists the steps reachable from each state.
// Leaving for StateNone (/cancel) is allowed from anywhere.
var validTransitions = map[State][]State{
	StateNone: {
		StateChoosingAction,
	},
	StateChoosingAction: {
		StateAwaitingName,
	},
	StateAwaitingName: {
		StateChoosingAction,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	if to == StateNone {
		return true
	}

	for _, state := range validTransitions[from] {
		if state == to {
			return true
		}
	}

	return false
}
