package state

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner ends conversations that have been idle for longer than ttl.
type Cleaner struct {
	storage  Storage
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage Storage, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil || c.ttl <= 0 || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("state cleaner stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			c.Cleanup(ctx)
		}
	}
}

// Cleanup removes every state last updated before now-ttl and returns how many were removed.
// A non-positive ttl disables expiry.
func (c *Cleaner) Cleanup(ctx context.Context) int {
	if ctx.Err() != nil || c.ttl <= 0 {
		return 0
	}

	states, err := c.storage.GetAllStates(ctx)
	if err != nil {
		c.log.Error("state cleaner failed to list states", slog.Any("error", err))
		return 0
	}

	cutoff := c.now().Add(-c.ttl)
	removed := 0

	for _, st := range states {
		if st == nil || st.UpdatedAt.IsZero() || !st.UpdatedAt.Before(cutoff) {
			continue
		}

		if err := c.storage.ClearState(ctx, st.ChatID); err != nil {
			c.log.Warn("state cleaner failed to clear state", slog.Int64("chat_id", st.ChatID), slog.Any("error", err))
			continue
		}

		transitionRecorder(st.CurrentState.Label(), StateNone.Label())
		removed++
	}

	if removed > 0 {
		c.log.Info("expired conversations removed", slog.Int("count", removed))
	}

	return removed
}
