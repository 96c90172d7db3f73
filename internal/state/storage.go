// Package state tracks which step of the admin conversation each chat is in.
package state

import "context"

// Storage defines the persistence contract for per-chat conversation state.
type Storage interface {
	// GetState returns the current state for the chat or ErrStateNotFound.
	GetState(ctx context.Context, chatID int64) (*UserState, error)
	// SetState saves the provided state for the chat.
	SetState(ctx context.Context, chatID int64, state *UserState) error
	// ClearState removes the state for the chat.
	ClearState(ctx context.Context, chatID int64) error
	// GetAllStates returns every stored chat state.
	GetAllStates(ctx context.Context) ([]*UserState, error)
}
