package state

import "time"

// State is a step of the add-junior conversation.
type State string

const (
	// StateNone means the chat has no active conversation.
	StateNone State = ""
	// StateChoosingAction is entered on /start; the admin menu is shown.
	StateChoosingAction State = "choosing_action"
	// StateAwaitingName waits for the new junior's name.
	StateAwaitingName State = "awaiting_name"
)

// Label returns a metrics-friendly name for the state.
func (s State) Label() string {
	if s == StateNone {
		return "none"
	}
	return string(s)
}

// UserState captures the conversation step of a single chat.
type UserState struct {
	ChatID       int64                  `json:"chat_id"`
	CurrentState State                  `json:"current_state"`
	Context      map[string]interface{} `json:"context,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
