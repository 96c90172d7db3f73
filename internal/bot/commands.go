package bot

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/command"
)

// Command constants for Telegram bot commands.
const (
	CommandStart  = command.Start
	CommandCancel = command.Cancel
)

// menuCommands is published to Telegram so clients can suggest the commands.
var menuCommands = []telebot.Command{
	{Text: strings.TrimPrefix(CommandStart, "/"), Description: "Open the admin menu"},
	{Text: strings.TrimPrefix(CommandCancel, "/"), Description: "End the conversation"},
}
