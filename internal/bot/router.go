package bot

import (
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/command"
	"github.com/Proton-105/juniorsaver-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/juniorsaver-bot/internal/errors"
)

// Router dispatches commands, callbacks, and state-aware text updates.
// Updates of the same chat are handled one at a time, in arrival order of the lock.
type Router struct {
	mu          sync.RWMutex
	chats       *chatLocks
	commands    map[string]handlers.Handler
	dispatcher  *Dispatcher
	middlewares []handlers.Middleware
	botUsername func() string
	log         *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, botUsername func() string, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	if botUsername == nil {
		botUsername = func() string { return "" }
	}

	return &Router{
		chats:       newChatLocks(),
		commands:    make(map[string]handlers.Handler),
		dispatcher:  dispatcher,
		middlewares: make([]handlers.Middleware, 0),
		botUsername: botUsername,
		log:         log,
	}
}

// RegisterCommand registers a handler for a bot command such as "/start".
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// Route directs the incoming update to the appropriate handler.
// Updates nobody accepts are dropped silently.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	// The state read in the dispatcher and the transition made by the handler
	// must not interleave with another update of the same chat.
	if chat := c.Chat(); chat != nil {
		unlock := r.chats.lock(chat.ID)
		defer unlock()
	}

	if callback := c.Callback(); callback != nil {
		return r.handleCallback(c, callback.Data)
	}

	return r.handleMessage(c)
}

func (r *Router) handleCallback(c telebot.Context, data string) error {
	if r.dispatcher == nil {
		return nil
	}

	handler, err := r.dispatcher.ResolveCallback(c, data)
	if err != nil {
		return r.executeHandler(failWith(apperrors.NewStateError(err)), c)
	}

	if handler == nil {
		// Stop the client's loading indicator even when the press is ignored.
		if err := c.Respond(); err != nil {
			r.log.Debug("failed to answer ignored callback", slog.Any("error", err))
		}
		return nil
	}

	return r.executeHandler(handler, c)
}

func (r *Router) handleMessage(c telebot.Context) error {
	text := c.Text()
	if text == "" {
		return nil
	}

	if msg := c.Message(); command.Is(msg) {
		cmd, ok := command.Parse(msg, r.botUsername())
		if !ok {
			return nil
		}

		if handler := r.getCommandHandler(cmd); handler != nil {
			return r.executeHandler(handler, c)
		}

		r.log.Debug("unknown command ignored", slog.String("command", cmd))
		return nil
	}

	if r.dispatcher == nil {
		return nil
	}

	handler, err := r.dispatcher.ResolveText(c)
	if err != nil {
		return r.executeHandler(failWith(apperrors.NewStateError(err)), c)
	}
	if handler == nil {
		return nil
	}

	return r.executeHandler(handler, c)
}

func (r *Router) executeHandler(h handlers.Handler, c telebot.Context) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(c)
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	handler := r.commands[cmd]
	r.mu.RUnlock()
	return handler
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}

// failWith lets state lookup failures travel through the same middleware chain as handler errors.
func failWith(err error) handlers.Handler {
	return func(telebot.Context) error {
		return err
	}
}
