package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// InlineButton is an inline keyboard entry before rendering.
type InlineButton struct {
	Name string // Callback token, combined with the keyboard prefix.
	Text string // Label shown to the user.
}

// InlineKeyboard lays buttons out with up to perRow per row. Each button carries
// prefix+Name as callback data so handlers can tell which menu produced the press.
func InlineKeyboard(buttons []InlineButton, perRow int, prefix string) *telebot.ReplyMarkup {
	rows := Chunk(buttons, perRow)

	inline := make([][]telebot.InlineButton, 0, len(rows))
	for _, row := range rows {
		rendered := make([]telebot.InlineButton, 0, len(row))
		for _, btn := range row {
			rendered = append(rendered, telebot.InlineButton{
				Text: btn.Text,
				Data: EncodeCallback(prefix, btn.Name),
			})
		}
		inline = append(inline, rendered)
	}

	return &telebot.ReplyMarkup{InlineKeyboard: inline}
}

// InlineFromMenu renders menu buttons as an inline keyboard using each value
// as both label and callback token. perRow <= 0 falls back to three per row.
func InlineFromMenu(buttons []MenuButton, perRow int, prefix string) *telebot.ReplyMarkup {
	if perRow <= 0 {
		perRow = defaultInlinePerRow
	}

	inline := make([]InlineButton, 0, len(buttons))
	for _, btn := range buttons {
		inline = append(inline, InlineButton{Name: btn.String(), Text: btn.String()})
	}

	return InlineKeyboard(inline, perRow, prefix)
}
