package idempotency

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Claim(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := store.Claim(ctx, UpdateKey(10), time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.Claim(ctx, UpdateKey(10), time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Cleanup())

	reclaimed, err := store.Claim(ctx, UpdateKey(10), time.Minute)
	require.NoError(t, err)
	assert.True(t, reclaimed)
}

func TestRedisStore_Claim(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	first, err := store.Claim(ctx, UpdateKey(7), time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.Claim(ctx, UpdateKey(7), time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	mr.FastForward(2 * time.Minute)

	reclaimed, err := store.Claim(ctx, UpdateKey(7), time.Minute)
	require.NoError(t, err)
	assert.True(t, reclaimed)
}
