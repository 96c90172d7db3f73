package middleware

import (
	"context"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/idempotency"
)

// Idempotency drops updates whose ID was already handled within ttl.
// Store failures let the update through.
func Idempotency(store idempotency.Store, ttl time.Duration, log *slog.Logger) telebot.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		if store == nil {
			return next
		}

		return func(c telebot.Context) error {
			updateID := c.Update().ID
			if updateID == 0 {
				return next(c)
			}

			first, err := store.Claim(context.Background(), idempotency.UpdateKey(updateID), ttl)
			if err != nil {
				log.Warn("idempotency check failed", slog.Int("update_id", updateID), slog.Any("error", err))
				return next(c)
			}
			if !first {
				log.Info("duplicate update skipped", slog.Int("update_id", updateID))
				return nil
			}

			return next(c)
		}
	}
}
