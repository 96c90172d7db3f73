package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps chat states in process memory. State is lost on restart.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[int64]*UserState
	now    func() time.Time
}

// NewMemoryStorage creates an empty in-memory Storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		states: make(map[int64]*UserState),
		now:    time.Now,
	}
}

// GetState returns a copy of the stored state or ErrStateNotFound.
func (s *MemoryStorage) GetState(_ context.Context, chatID int64) (*UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[chatID]
	if !ok {
		return nil, ErrStateNotFound
	}

	return cloneState(state), nil
}

// SetState stores a copy of state and stamps UpdatedAt.
func (s *MemoryStorage) SetState(_ context.Context, chatID int64, state *UserState) error {
	stored := cloneState(state)
	stored.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = stored
	return nil
}

// ClearState removes the chat state. Clearing a missing state is not an error.
func (s *MemoryStorage) ClearState(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, chatID)
	return nil
}

// GetAllStates returns copies of all stored states.
func (s *MemoryStorage) GetAllStates(_ context.Context) ([]*UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*UserState, 0, len(s.states))
	for _, state := range s.states {
		result = append(result, cloneState(state))
	}

	return result, nil
}

func cloneState(state *UserState) *UserState {
	if state == nil {
		return &UserState{}
	}

	copied := *state
	if state.Context != nil {
		ctxCopy := make(map[string]interface{}, len(state.Context))
		for k, v := range state.Context {
			ctxCopy[k] = v
		}
		copied.Context = ctxCopy
	}

	return &copied
}
