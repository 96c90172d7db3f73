package middleware

import (
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/command"
	"github.com/Proton-105/juniorsaver-bot/internal/bot/handlers"
	"github.com/Proton-105/juniorsaver-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(extractAction(c), status, time.Since(start))

		return err
	}
}

// extractAction maps an update to a bounded label: "callback", the name of a
// known command, "command" for any other command, or "text" for free-form
// messages such as a junior's name.
func extractAction(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		return "callback"
	}

	if msg := c.Message(); command.Is(msg) {
		if name, ok := command.Parse(msg, ""); ok && command.Known(name) {
			return name
		}
		return "command"
	}

	if c.Text() != "" {
		return "text"
	}

	return "unknown"
}
