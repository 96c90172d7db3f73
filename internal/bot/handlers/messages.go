// Package handlers implements the admin conversation steps.
package handlers

import "fmt"

const (
	namePromptText        = "What is the new user's name?"
	juniorInstructionText = "Send next message to a new Junior"
	farewellText          = "Good by!"

	// inviteStartParameter is the deep-link payload a junior's /start carries.
	inviteStartParameter = "1111"

	juniorNameContextKey = "junior_name"
)

// GreetingText is the menu greeting shown on /start.
func GreetingText(userID int64, isAdmin bool) string {
	return fmt.Sprintf("Hello my Lord! %d What do you want from me? %t", userID, isAdmin)
}

// InviteLink returns the deep link a new junior opens to start the bot.
func InviteLink(botUsername string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, inviteStartParameter)
}
