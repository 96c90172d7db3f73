package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// Builder creates the keyboards used by the conversation handlers.
type Builder struct {
	log    *slog.Logger
	prefix string
}

// NewBuilder returns a Builder whose inline keyboards use the given callback prefix.
func NewBuilder(log *slog.Logger, prefix string) *Builder {
	if log == nil {
		log = slog.Default()
	}

	return &Builder{log: log, prefix: prefix}
}

// Prefix returns the callback prefix applied to inline buttons.
func (b *Builder) Prefix() string {
	return b.prefix
}

// MainMenu builds the inline admin action menu.
func (b *Builder) MainMenu() *telebot.ReplyMarkup {
	markup := InlineFromMenu(MainMenuButtons(), defaultInlinePerRow, b.prefix)
	b.warnOversized(markup)
	return markup
}

// Remove hides the reply keyboard.
func (b *Builder) Remove() *telebot.ReplyMarkup {
	return RemoveKeyboard()
}

func (b *Builder) warnOversized(markup *telebot.ReplyMarkup) {
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if !FitsCallbackLimit(btn.Data) {
				b.log.Warn("callback data exceeds telegram limit",
					slog.String("data", btn.Data),
					slog.Int("limit", CallbackDataLimitBytes),
				)
			}
		}
	}
}
