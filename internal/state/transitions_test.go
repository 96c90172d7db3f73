package state

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{name: "none to choosing action", from: StateNone, to: StateChoosingAction, expected: true},
		{name: "choosing action to awaiting name", from: StateChoosingAction, to: StateAwaitingName, expected: true},
		{name: "awaiting name back to choosing action", from: StateAwaitingName, to: StateChoosingAction, expected: true},
		{name: "choosing action restart invalid", from: StateChoosingAction, to: StateChoosingAction, expected: false},
		{name: "none to awaiting name invalid", from: StateNone, to: StateAwaitingName, expected: false},
		{name: "awaiting name to awaiting name invalid", from: StateAwaitingName, to: StateAwaitingName, expected: false},
		{name: "unknown state to awaiting name invalid", from: State("unknown"), to: StateAwaitingName, expected: false},
		{name: "choosing action end", from: StateChoosingAction, to: StateNone, expected: true},
		{name: "awaiting name end", from: StateAwaitingName, to: StateNone, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%q -> %q) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
