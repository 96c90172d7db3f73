package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/juniorsaver-bot/internal/errors"
	"github.com/Proton-105/juniorsaver-bot/internal/state"
	"github.com/Proton-105/juniorsaver-bot/pkg/metrics"
)

// NewJuniorNameHandler accepts the new junior's name, sends the instruction and
// the invitation link, and returns the chat to the action menu state.
// botUsername is resolved lazily so the handler can be built before getMe completes.
func NewJuniorNameHandler(fsm state.StateMachine, botUsername func() string, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Chat() == nil {
			log.Warn("junior name handler invoked without chat")
			return nil
		}

		name := c.Text()
		if name == "" {
			return nil
		}

		if err := c.Send(juniorInstructionText); err != nil {
			return apperrors.NewTelegramError("send", err)
		}

		username := ""
		if botUsername != nil {
			username = botUsername()
		}

		if err := c.Send(InviteLink(username)); err != nil {
			return apperrors.NewTelegramError("send", err)
		}
		metrics.RecordInvitation()

		chatID := c.Chat().ID
		contextData := map[string]interface{}{juniorNameContextKey: name}
		if err := fsm.TransitionTo(context.Background(), chatID, state.StateChoosingAction, contextData); err != nil {
			return apperrors.NewStateError(err)
		}

		log.Info("junior invitation sent", slog.Int64("chat_id", chatID), slog.String("junior_name", name))
		return nil
	}
}
