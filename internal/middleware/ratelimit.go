package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/command"
	apperrors "github.com/Proton-105/juniorsaver-bot/internal/errors"
	"github.com/Proton-105/juniorsaver-bot/internal/ratelimit"
	"github.com/Proton-105/juniorsaver-bot/pkg/metrics"
)

// RateLimitMiddleware gives every user a separate budget per kind of update,
// so a flood of text does not lock the menu buttons.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	rules   *ratelimit.Rules
	log     *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, rules *ratelimit.Rules, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		rules:   rules,
		log:     log,
	}
}

// Handle returns a telebot middleware that enforces the budgets.
// Limiter failures let the update through.
func (m *RateLimitMiddleware) Handle(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if m.limiter == nil || m.rules == nil {
			return next(c)
		}

		sender := c.Sender()
		if sender == nil || m.rules.IsWhitelisted(sender.ID) {
			return next(c)
		}

		userID := sender.ID
		action := actionOf(c)

		rule, ok, err := m.rules.For(action)
		if err != nil {
			m.log.Error("invalid rate limit rule", slog.String("action", string(action)), slog.Any("error", err))
			return next(c)
		}
		if !ok {
			return next(c)
		}

		decision, err := m.limiter.Allow(context.Background(), ratelimit.Key(userID, action), rule)
		switch {
		case errors.Is(err, ratelimit.ErrLimitExceeded):
			return m.reject(c, userID, action, decision)
		case err != nil:
			m.log.Warn("rate limiter error", slog.Int64("user_id", userID), slog.Any("error", err))
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) reject(c telebot.Context, userID int64, action ratelimit.Action, decision ratelimit.Decision) error {
	m.log.Warn("rate limit exceeded",
		slog.Int64("user_id", userID),
		slog.String("action", string(action)),
		slog.Duration("retry_after", decision.RetryAfter),
	)
	metrics.RecordRateLimited()

	retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	msg := apperrors.NewRateLimitError(retryAfter).UserMessage

	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: msg})
	}
	return c.Send(msg)
}

// actionOf classifies an update into the budget it is charged to.
func actionOf(c telebot.Context) ratelimit.Action {
	switch {
	case c.Callback() != nil:
		return ratelimit.ActionCallback
	case command.Is(c.Message()):
		return ratelimit.ActionCommand
	case c.Text() != "":
		return ratelimit.ActionText
	default:
		return ratelimit.ActionOther
	}
}
