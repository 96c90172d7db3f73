package bot

import (
	"context"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/handlers"
	"github.com/Proton-105/juniorsaver-bot/internal/bot/keyboard"
	"github.com/Proton-105/juniorsaver-bot/internal/state"
)

// Dispatcher maps the chat's conversation state to the handler that accepts the next update.
type Dispatcher struct {
	fsm              state.StateMachine
	callbackPrefix   string
	textHandlers     map[state.State]handlers.Handler
	callbackHandlers map[state.State]map[string]handlers.Handler
	log              *slog.Logger
	mu               sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty transition table.
func NewDispatcher(fsm state.StateMachine, callbackPrefix string, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		fsm:              fsm,
		callbackPrefix:   callbackPrefix,
		textHandlers:     make(map[state.State]handlers.Handler),
		callbackHandlers: make(map[state.State]map[string]handlers.Handler),
		log:              log,
	}
}

// RegisterTextHandler registers the handler for plain text received in state s.
func (d *Dispatcher) RegisterTextHandler(s state.State, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.textHandlers[s] = h
}

// RegisterCallbackHandler registers the handler for the callback token pressed in state s.
func (d *Dispatcher) RegisterCallbackHandler(s state.State, token string, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.callbackHandlers[s] == nil {
		d.callbackHandlers[s] = make(map[string]handlers.Handler)
	}
	d.callbackHandlers[s][token] = h
}

// ResolveText returns the handler for a text message, or nil if the current state ignores text.
func (d *Dispatcher) ResolveText(c telebot.Context) (handlers.Handler, error) {
	current, ok, err := d.currentState(c)
	if err != nil || !ok {
		return nil, err
	}

	d.mu.RLock()
	h := d.textHandlers[current]
	d.mu.RUnlock()

	if h == nil {
		d.log.Debug("text ignored in current state", "state", current.Label(), "chat_id", c.Chat().ID)
	}
	return h, nil
}

// ResolveCallback returns the handler for callback data, or nil if the current state ignores it.
func (d *Dispatcher) ResolveCallback(c telebot.Context, data string) (handlers.Handler, error) {
	token, ok := keyboard.DecodeCallback(data, d.callbackPrefix)
	if !ok {
		d.log.Debug("callback with foreign prefix", "data", data)
		return nil, nil
	}

	current, ok, err := d.currentState(c)
	if err != nil || !ok {
		return nil, err
	}

	d.mu.RLock()
	h := d.callbackHandlers[current][token]
	d.mu.RUnlock()

	if h == nil {
		d.log.Info("no callback handler for state", "state", current.Label(), "token", token, "chat_id", c.Chat().ID)
	}
	return h, nil
}

func (d *Dispatcher) currentState(c telebot.Context) (state.State, bool, error) {
	if c == nil || c.Chat() == nil {
		d.log.Warn("cannot dispatch without chat information")
		return state.StateNone, false, nil
	}

	current, err := d.fsm.Current(context.Background(), c.Chat().ID)
	if err != nil {
		return state.StateNone, false, err
	}

	return current, true, nil
}
