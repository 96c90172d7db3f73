package handlers

import (
	telebot "gopkg.in/telebot.v3"
)

// Handler processes a single update.
type Handler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// AdminChecker reports whether a user is an administrator.
type AdminChecker interface {
	IsAdmin(userID int64) bool
}
