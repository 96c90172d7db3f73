// Package command recognises bot commands the way Telegram marks them: a
// bot_command entity at the start of the message.
package command

import (
	"strings"
	"unicode/utf16"

	telebot "gopkg.in/telebot.v3"
)

// Commands handled by the bot.
const (
	Start  = "/start"
	Cancel = "/cancel"
)

// Is reports whether msg begins with a bot_command entity.
func Is(msg *telebot.Message) bool {
	_, ok := leadingEntity(msg)
	return ok
}

// Parse returns the lowercase command name ("/start") of msg. Commands
// addressed to another bot ("/start@other_bot") are reported as not ours.
// An empty botUsername accepts any addressee.
func Parse(msg *telebot.Message, botUsername string) (string, bool) {
	entity, ok := leadingEntity(msg)
	if !ok {
		return "", false
	}

	units := utf16.Encode([]rune(msg.Text))
	if entity.Length <= 0 || entity.Length > len(units) {
		return "", false
	}
	raw := string(utf16.Decode(units[:entity.Length]))

	name, target, addressed := strings.Cut(raw, "@")
	if addressed && botUsername != "" && !strings.EqualFold(target, botUsername) {
		return "", false
	}

	return strings.ToLower(name), true
}

// Known reports whether name is one of the commands the bot handles.
func Known(name string) bool {
	return name == Start || name == Cancel
}

func leadingEntity(msg *telebot.Message) (telebot.MessageEntity, bool) {
	if msg == nil {
		return telebot.MessageEntity{}, false
	}

	for _, entity := range msg.Entities {
		if entity.Type == telebot.EntityCommand && entity.Offset == 0 {
			return entity, true
		}
	}
	return telebot.MessageEntity{}, false
}
