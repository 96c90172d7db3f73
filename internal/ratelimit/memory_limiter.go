package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryLimiter keeps event timestamps in process memory.
type MemoryLimiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	now    func() time.Time
	log    *slog.Logger
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter returns an in-memory limiter.
func NewMemoryLimiter(log *slog.Logger) *MemoryLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryLimiter{
		events: make(map[string][]time.Time),
		now:    time.Now,
		log:    log,
	}
}

// Allow counts one event for key unless the rule's budget is spent.
func (m *MemoryLimiter) Allow(ctx context.Context, key string, rule Rule) (Decision, error) {
	if err := rule.validate(); err != nil {
		return Decision{}, err
	}
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	events := since(m.events[key], now.Add(-rule.Window))
	if len(events) >= rule.Limit {
		m.events[key] = events
		return Decision{RetryAfter: events[0].Add(rule.Window).Sub(now)}, ErrLimitExceeded
	}

	events = append(events, now)
	m.events[key] = events

	return Decision{Remaining: rule.Limit - len(events)}, nil
}

// Cleanup forgets keys with no event newer than maxAge and reports how many were dropped.
func (m *MemoryLimiter) Cleanup(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, events := range m.events {
		if len(events) == 0 || !events[len(events)-1].After(cutoff) {
			delete(m.events, key)
			removed++
		}
	}

	return removed
}

// Run calls Cleanup every interval until ctx is cancelled.
func (m *MemoryLimiter) Run(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Debug("memory rate limiter cleanup stopped")
			return
		case <-ticker.C:
			if removed := m.Cleanup(maxAge); removed > 0 {
				m.log.Debug("rate limit keys forgotten", slog.Int("keys", removed))
			}
		}
	}
}

// Len reports the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// since drops the leading events at or before cutoff, reusing the slice.
func since(events []time.Time, cutoff time.Time) []time.Time {
	first := 0
	for first < len(events) && !events[first].After(cutoff) {
		first++
	}
	if first == 0 {
		return events
	}

	n := copy(events, events[first:])
	return events[:n]
}
