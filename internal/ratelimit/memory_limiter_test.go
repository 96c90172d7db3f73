package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClock is advanced by hand so window arithmetic can be asserted exactly.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemoryLimiter() (*MemoryLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewMemoryLimiter(testLogger())
	limiter.now = clock.now
	return limiter, clock
}

func TestMemoryLimiter_SpendsBudget(t *testing.T) {
	limiter, _ := newTestMemoryLimiter()
	ctx := context.Background()
	rule := Rule{Limit: 3, Window: time.Minute}

	for want := 2; want >= 0; want-- {
		decision, err := limiter.Allow(ctx, "user:1:text", rule)
		require.NoError(t, err)
		assert.Equal(t, want, decision.Remaining)
	}

	decision, err := limiter.Allow(ctx, "user:1:text", rule)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.Zero(t, decision.Remaining)
	assert.Equal(t, time.Minute, decision.RetryAfter)
}

func TestMemoryLimiter_RetryAfterFollowsOldestEvent(t *testing.T) {
	limiter, clock := newTestMemoryLimiter()
	ctx := context.Background()
	rule := Rule{Limit: 2, Window: time.Minute}

	_, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	clock.advance(20 * time.Second)
	_, err = limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)
	clock.advance(10 * time.Second)

	decision, err := limiter.Allow(ctx, "k", rule)
	require.ErrorIs(t, err, ErrLimitExceeded)
	assert.Equal(t, 30*time.Second, decision.RetryAfter)

	clock.advance(30 * time.Second)
	decision, err = limiter.Allow(ctx, "k", rule)
	require.NoError(t, err, "the first event left the window")
	assert.Zero(t, decision.Remaining)
}

func TestMemoryLimiter_RejectedEventsAreNotCounted(t *testing.T) {
	limiter, clock := newTestMemoryLimiter()
	ctx := context.Background()
	rule := Rule{Limit: 1, Window: time.Minute}

	_, err := limiter.Allow(ctx, "k", rule)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		clock.advance(10 * time.Second)
		_, err = limiter.Allow(ctx, "k", rule)
		require.ErrorIs(t, err, ErrLimitExceeded)
	}

	clock.advance(10 * time.Second)
	_, err = limiter.Allow(ctx, "k", rule)
	assert.NoError(t, err)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestMemoryLimiter()
	ctx := context.Background()
	rule := Rule{Limit: 1, Window: time.Minute}

	_, err := limiter.Allow(ctx, Key(1, ActionText), rule)
	require.NoError(t, err)
	_, err = limiter.Allow(ctx, Key(1, ActionText), rule)
	require.ErrorIs(t, err, ErrLimitExceeded)

	_, err = limiter.Allow(ctx, Key(1, ActionCallback), rule)
	assert.NoError(t, err)
	_, err = limiter.Allow(ctx, Key(2, ActionText), rule)
	assert.NoError(t, err)
}

func TestMemoryLimiter_InvalidRule(t *testing.T) {
	limiter, _ := newTestMemoryLimiter()

	for _, rule := range []Rule{{Limit: 0, Window: time.Minute}, {Limit: 1}} {
		_, err := limiter.Allow(context.Background(), "k", rule)
		assert.ErrorIs(t, err, ErrInvalidRule)
	}
	assert.Zero(t, limiter.Len())
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	limiter, clock := newTestMemoryLimiter()
	rule := Rule{Limit: 5, Window: time.Minute}

	_, err := limiter.Allow(context.Background(), "old", rule)
	require.NoError(t, err)
	clock.advance(2 * time.Minute)
	_, err = limiter.Allow(context.Background(), "fresh", rule)
	require.NoError(t, err)
	require.Equal(t, 2, limiter.Len())

	assert.Equal(t, 1, limiter.Cleanup(time.Minute))
	assert.Equal(t, 1, limiter.Len())
	assert.Zero(t, limiter.Cleanup(0))
}

func TestMemoryLimiter_RunStopsOnCancel(t *testing.T) {
	limiter, _ := newTestMemoryLimiter()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, time.Millisecond, time.Minute)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
