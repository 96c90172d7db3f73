package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStorageFailure = errors.New("storage error")

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetState(ctx context.Context, chatID int64) (*UserState, error) {
	args := m.Called(ctx, chatID)
	state, _ := args.Get(0).(*UserState)
	return state, args.Error(1)
}

func (m *mockStorage) SetState(ctx context.Context, chatID int64, state *UserState) error {
	args := m.Called(ctx, chatID, state)
	return args.Error(0)
}

func (m *mockStorage) ClearState(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *mockStorage) GetAllStates(ctx context.Context) ([]*UserState, error) {
	args := m.Called(ctx)
	states, _ := args.Get(0).([]*UserState)
	return states, args.Error(1)
}

func TestStateMachine_TransitionTo(t *testing.T) {
	ctx := context.Background()
	chatID := int64(42)

	testCases := []struct {
		name        string
		setupMocks  func(ms *mockStorage)
		newState    State
		expectedErr error
	}{
		{
			name: "choosing action to awaiting name",
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, chatID).
					Return(&UserState{CurrentState: StateChoosingAction}, nil).Once()
				ms.On("SetState", mock.Anything, chatID, mock.MatchedBy(func(state *UserState) bool {
					return state.CurrentState == StateAwaitingName && state.ChatID == chatID
				})).Return(nil).Once()
			},
			newState: StateAwaitingName,
		},
		{
			name: "awaiting name without conversation",
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, chatID).
					Return((*UserState)(nil), ErrStateNotFound).Once()
			},
			newState:    StateAwaitingName,
			expectedErr: ErrInvalidTransition,
		},
		{
			name: "end clears storage",
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, chatID).
					Return(&UserState{CurrentState: StateAwaitingName}, nil).Once()
				ms.On("ClearState", mock.Anything, chatID).Return(nil).Once()
			},
			newState: StateNone,
		},
		{
			name: "storage read failure",
			setupMocks: func(ms *mockStorage) {
				ms.On("GetState", mock.Anything, chatID).
					Return((*UserState)(nil), errStorageFailure).Once()
			},
			newState:    StateChoosingAction,
			expectedErr: errStorageFailure,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ms := &mockStorage{}
			tc.setupMocks(ms)

			fsm := NewStateMachine(ms, testLogger(), nil)
			err := fsm.TransitionTo(ctx, chatID, tc.newState, nil)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			ms.AssertExpectations(t)
		})
	}
}

func TestStateMachine_Conversation(t *testing.T) {
	ctx := context.Background()
	fsm := NewStateMachine(NewMemoryStorage(), testLogger(), nil)
	chatID := int64(7)

	current, err := fsm.Current(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, StateNone, current)

	require.NoError(t, fsm.Start(ctx, chatID))
	assertCurrent(t, fsm, chatID, StateChoosingAction)

	require.NoError(t, fsm.TransitionTo(ctx, chatID, StateAwaitingName, nil))
	assertCurrent(t, fsm, chatID, StateAwaitingName)

	require.NoError(t, fsm.TransitionTo(ctx, chatID, StateChoosingAction, map[string]interface{}{"junior_name": "Alice"}))
	assertCurrent(t, fsm, chatID, StateChoosingAction)

	stored, err := fsm.GetState(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Context["junior_name"])

	require.NoError(t, fsm.End(ctx, chatID))
	assertCurrent(t, fsm, chatID, StateNone)

	_, err = fsm.GetState(ctx, chatID)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateMachine_StartDuringConversationRejected(t *testing.T) {
	ctx := context.Background()
	fsm := NewStateMachine(NewMemoryStorage(), testLogger(), nil)

	require.NoError(t, fsm.Start(ctx, 1))
	assert.ErrorIs(t, fsm.Start(ctx, 1), ErrInvalidTransition)

	require.NoError(t, fsm.TransitionTo(ctx, 1, StateAwaitingName, nil))
	assert.ErrorIs(t, fsm.Start(ctx, 1), ErrInvalidTransition)

	assertCurrent(t, fsm, 1, StateAwaitingName)
}

func TestStateMachine_ChatsAreIndependent(t *testing.T) {
	ctx := context.Background()
	fsm := NewStateMachine(NewMemoryStorage(), testLogger(), nil)

	require.NoError(t, fsm.Start(ctx, 1))
	require.NoError(t, fsm.TransitionTo(ctx, 1, StateAwaitingName, nil))
	require.NoError(t, fsm.Start(ctx, 2))

	assertCurrent(t, fsm, 1, StateAwaitingName)
	assertCurrent(t, fsm, 2, StateChoosingAction)

	states, err := fsm.GetAllStates(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 2)
}

func TestStateMachine_TransitionRecorder(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	recorded := make([]string, 0)
	RegisterTransitionRecorder(func(from, to string) {
		mu.Lock()
		defer mu.Unlock()
		recorded = append(recorded, from+"->"+to)
	})
	t.Cleanup(func() { RegisterTransitionRecorder(nil) })

	fsm := NewStateMachine(NewMemoryStorage(), testLogger(), nil)
	require.NoError(t, fsm.Start(ctx, 3))
	require.NoError(t, fsm.TransitionTo(ctx, 3, StateAwaitingName, nil))
	require.NoError(t, fsm.End(ctx, 3))

	assert.Equal(t, []string{
		"none->choosing_action",
		"choosing_action->awaiting_name",
		"awaiting_name->none",
	}, recorded)
}

func TestStateMachine_RedisLock(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	fsm := NewStateMachine(NewMemoryStorage(), testLogger(), client)

	require.NoError(t, client.Set(ctx, "chat:lock:9", 1, 0).Err())
	assert.ErrorIs(t, fsm.Start(ctx, 9), ErrStateLocked)

	require.NoError(t, client.Del(ctx, "chat:lock:9").Err())
	require.NoError(t, fsm.Start(ctx, 9))
	assertCurrent(t, fsm, 9, StateChoosingAction)

	exists, err := client.Exists(ctx, "chat:lock:9").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func assertCurrent(t *testing.T, fsm StateMachine, chatID int64, expected State) {
	t.Helper()

	current, err := fsm.Current(context.Background(), chatID)
	require.NoError(t, err)
	assert.Equal(t, expected, current)
}

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, cleanup
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
