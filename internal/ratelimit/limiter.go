package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Rule allows Limit events per sliding Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

func (r Rule) validate() error {
	if r.Limit <= 0 || r.Window <= 0 {
		return ErrInvalidRule
	}
	return nil
}

// Decision describes the budget after an Allow call: what is left once the
// event is counted, or how long to wait when it was rejected.
type Decision struct {
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts events per key in a sliding window. Rejected events are not
// counted, so a user who keeps retrying is not locked out forever.
type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (Decision, error)
}

var (
	// ErrLimitExceeded indicates the key has used up its budget for the window.
	ErrLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidRule is returned for rules without a positive limit and window.
	ErrInvalidRule = errors.New("rate limit rule needs a positive limit and window")
)
