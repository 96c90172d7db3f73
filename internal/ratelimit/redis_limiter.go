package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// slidingWindow trims the window, then either rejects with the wait until the
// oldest event leaves it or records the new event.
// Returns {allowed, remaining, retry_after_ms}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	local retry = window
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	if oldest[2] then
		retry = tonumber(oldest[2]) + window - now
	end
	return {0, 0, retry}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1, 0}
`)

// RedisLimiter keeps each key's events in a sorted set scored by milliseconds.
// Keys expire on their own once their window passes.
type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
	log    *slog.Logger
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, log *slog.Logger) *RedisLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &RedisLimiter{
		client: client,
		now:    time.Now,
		log:    log,
	}
}

// Allow atomically counts one event for key unless the rule's budget is spent.
func (r *RedisLimiter) Allow(ctx context.Context, key string, rule Rule) (Decision, error) {
	if err := rule.validate(); err != nil {
		return Decision{}, err
	}

	res, err := slidingWindow.Run(ctx, r.client,
		[]string{keyPrefix + key},
		r.now().UnixMilli(),
		rule.Window.Milliseconds(),
		rule.Limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		r.log.Error("rate limit script failed", slog.String("key", key), slog.Any("error", err))
		return Decision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, res)
	}

	if res[0] == 0 {
		return Decision{RetryAfter: time.Duration(res[2]) * time.Millisecond}, ErrLimitExceeded
	}

	return Decision{Remaining: int(res[1])}, nil
}
