package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/juniorsaver-bot/internal/errors"
	"github.com/Proton-105/juniorsaver-bot/internal/state"
)

// NewCancelHandler ends an active conversation with a farewell and removes the keyboard.
// Chats without an active conversation are ignored.
func NewCancelHandler(fsm state.StateMachine, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Chat() == nil {
			log.Warn("cancel handler invoked without sender context")
			return nil
		}

		ctx := context.Background()
		chatID := c.Chat().ID

		current, err := fsm.Current(ctx, chatID)
		if err != nil {
			return apperrors.NewStateError(err)
		}
		if current == state.StateNone {
			log.Debug("cancel without active conversation", slog.Int64("chat_id", chatID))
			return nil
		}

		if err := c.Send(farewellText, kb.Remove()); err != nil {
			return apperrors.NewTelegramError("send", err)
		}

		if err := fsm.End(ctx, chatID); err != nil {
			return apperrors.NewStateError(err)
		}

		log.Info("user canceled the conversation",
			slog.Int64("user_id", c.Sender().ID),
			slog.String("first_name", c.Sender().FirstName),
		)
		return nil
	}
}
