package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/juniorsaver-bot/internal/errors"
	"github.com/Proton-105/juniorsaver-bot/internal/state"
)

// NewStartHandler greets the user with the admin menu and opens the conversation.
// The admin flag is only displayed; it does not gate any action.
// /start during an active conversation is ignored.
func NewStartHandler(fsm state.StateMachine, admins AdminChecker, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Chat() == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		ctx := context.Background()
		chatID := c.Chat().ID

		current, err := fsm.Current(ctx, chatID)
		if err != nil {
			return apperrors.NewStateError(err)
		}
		if current != state.StateNone {
			log.Debug("start ignored during active conversation",
				slog.Int64("chat_id", chatID),
				slog.String("state", current.Label()),
			)
			return nil
		}

		userID := c.Sender().ID
		isAdmin := admins != nil && admins.IsAdmin(userID)

		if err := c.Send(GreetingText(userID, isAdmin), kb.MainMenu()); err != nil {
			return apperrors.NewTelegramError("send", err)
		}

		if err := fsm.Start(ctx, chatID); err != nil {
			return apperrors.NewStateError(err)
		}

		log.Info("conversation started", slog.Int64("user_id", userID), slog.Bool("is_admin", isAdmin))
		return nil
	}
}
