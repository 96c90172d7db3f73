package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// ReplyKeyboard builds a one-time reply keyboard with up to perRow labels per row.
// Pressing a button sends its label back as a plain text message.
func ReplyKeyboard(labels []string, perRow int) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}

	buttons := make([]telebot.Btn, 0, len(labels))
	for _, label := range labels {
		buttons = append(buttons, markup.Text(label))
	}

	rows := make([]telebot.Row, 0, len(labels))
	for _, chunk := range Chunk(buttons, perRow) {
		rows = append(rows, markup.Row(chunk...))
	}

	markup.Reply(rows...)
	return markup
}

// ReplyFromMenu renders menu buttons as a reply keyboard, two per row.
func ReplyFromMenu(buttons []MenuButton) *telebot.ReplyMarkup {
	labels := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		labels = append(labels, btn.String())
	}

	return ReplyKeyboard(labels, defaultReplyPerRow)
}

// RemoveKeyboard returns a markup that hides any active reply keyboard.
func RemoveKeyboard() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{RemoveKeyboard: true}
}
