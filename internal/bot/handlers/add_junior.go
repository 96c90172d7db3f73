package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/juniorsaver-bot/internal/errors"
	"github.com/Proton-105/juniorsaver-bot/internal/state"
)

// NewAddJuniorHandler answers the "add junior" button by replacing the menu
// with the name prompt and waiting for the name.
func NewAddJuniorHandler(fsm state.StateMachine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Chat() == nil {
			log.Warn("add junior handler invoked without chat")
			return nil
		}

		if err := c.Respond(); err != nil {
			log.Warn("failed to answer callback", slog.Any("error", err))
		}

		// Editing without markup drops the inline menu.
		if err := c.Edit(namePromptText); err != nil {
			return apperrors.NewTelegramError("edit", err)
		}

		if err := fsm.TransitionTo(context.Background(), c.Chat().ID, state.StateAwaitingName, nil); err != nil {
			return apperrors.NewStateError(err)
		}

		return nil
	}
}
