package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatLockKeyPattern = "chat:lock:%d"
	lockTTL            = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that a requested FSM transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStateNotFound indicates that the chat has no conversation state.
	ErrStateNotFound = errors.New("chat state not found")
	// ErrStateLocked indicates that a concurrent update for the chat holds the lock.
	ErrStateLocked = errors.New("state is locked, try again later")
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe FSM transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// StateMachine describes the conversation FSM operations.
type StateMachine interface {
	// GetState returns the stored state or ErrStateNotFound.
	GetState(ctx context.Context, chatID int64) (*UserState, error)
	// Current returns the active state, StateNone when the chat has no conversation.
	Current(ctx context.Context, chatID int64) (State, error)
	// Start opens a conversation at StateChoosingAction. It fails with
	// ErrInvalidTransition while a conversation is active.
	Start(ctx context.Context, chatID int64) error
	// TransitionTo moves the chat to newState if the transition table allows it.
	TransitionTo(ctx context.Context, chatID int64, newState State, contextData map[string]interface{}) error
	// End terminates the conversation.
	End(ctx context.Context, chatID int64) error
	// GetAllStates returns every active conversation.
	GetAllStates(ctx context.Context) ([]*UserState, error)
}

// machine is a StateMachine backed by Storage, with optional Redis locking.
type machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client
}

// NewStateMachine creates a FSM controller. redisClient may be nil, in which case
// no cross-process lock is taken.
func NewStateMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) StateMachine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

// GetState proxies to the underlying storage implementation.
func (m *machine) GetState(ctx context.Context, chatID int64) (*UserState, error) {
	return m.storage.GetState(ctx, chatID)
}

// GetAllStates returns every persisted chat state.
func (m *machine) GetAllStates(ctx context.Context) ([]*UserState, error) {
	return m.storage.GetAllStates(ctx)
}

// Current resolves the active state of the chat.
func (m *machine) Current(ctx context.Context, chatID int64) (State, error) {
	stored, err := m.storage.GetState(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return StateNone, nil
		}
		return StateNone, err
	}
	if stored == nil {
		return StateNone, nil
	}

	return stored.CurrentState, nil
}

// Start opens the conversation at the action menu.
func (m *machine) Start(ctx context.Context, chatID int64) error {
	return m.TransitionTo(ctx, chatID, StateChoosingAction, nil)
}

// TransitionTo changes the state if the transition is allowed, guarded by a lock.
func (m *machine) TransitionTo(ctx context.Context, chatID int64, newState State, contextData map[string]interface{}) error {
	if err := m.lock(ctx, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, chatID)

	current, err := m.Current(ctx, chatID)
	if err != nil {
		return err
	}

	if !IsTransitionAllowed(current, newState) {
		m.log.Warn("invalid state transition", "chat_id", chatID, "from", current, "to", newState)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Label(), newState.Label())
	}

	if newState == StateNone {
		if err := m.storage.ClearState(ctx, chatID); err != nil {
			return err
		}
	} else {
		userState := &UserState{
			ChatID:       chatID,
			CurrentState: newState,
			Context:      contextData,
		}
		if err := m.storage.SetState(ctx, chatID, userState); err != nil {
			return err
		}
	}

	transitionRecorder(current.Label(), newState.Label())
	return nil
}

// End removes the chat state.
func (m *machine) End(ctx context.Context, chatID int64) error {
	return m.TransitionTo(ctx, chatID, StateNone, nil)
}

func (m *machine) lock(ctx context.Context, chatID int64) error {
	if m.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(chatLockKeyPattern, chatID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		m.log.Error("failed to acquire chat state lock", "chat_id", chatID, "error", err)
		return err
	}

	if !acquired {
		m.log.Warn("chat state lock already held", "chat_id", chatID)
		return ErrStateLocked
	}

	return nil
}

func (m *machine) unlock(ctx context.Context, chatID int64) {
	if m.redisClient == nil {
		return
	}

	key := fmt.Sprintf(chatLockKeyPattern, chatID)
	if err := m.redisClient.Del(ctx, key).Err(); err != nil {
		m.log.Error("failed to release chat state lock", "chat_id", chatID, "error", err)
	}
}
