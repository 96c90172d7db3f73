package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"github.com/Proton-105/juniorsaver-bot/pkg/config"
)

// ErrWindowNotSet is returned when a rule has a limit but no window.
var ErrWindowNotSet = errors.New("window duration is not set")

// Action is the kind of update a budget applies to.
type Action string

const (
	ActionCommand  Action = "command"
	ActionCallback Action = "callback"
	ActionText     Action = "text"
	ActionOther    Action = "other"
)

// Rules resolves configured budgets and the whitelist.
type Rules struct {
	config    config.RateLimitConfig
	whitelist map[int64]struct{}
}

// NewRules constructs rate limiting rules from configuration settings.
// Extra IDs (typically the admin allow-list) are whitelisted alongside the configured ones.
func NewRules(cfg config.RateLimitConfig, extraWhitelist ...int64) *Rules {
	whitelist := make(map[int64]struct{}, len(cfg.Whitelist)+len(extraWhitelist))
	for _, id := range cfg.Whitelist {
		whitelist[id] = struct{}{}
	}
	for _, id := range extraWhitelist {
		whitelist[id] = struct{}{}
	}

	return &Rules{config: cfg, whitelist: whitelist}
}

// IsWhitelisted returns true if the userID bypasses rate limits.
func (r *Rules) IsWhitelisted(userID int64) bool {
	_, ok := r.whitelist[userID]
	return ok
}

// For returns the budget of action. An action without its own rule uses
// the per-user rule; ok is false when the resulting limit is zero.
func (r *Rules) For(action Action) (rule Rule, ok bool, err error) {
	cfg := r.configured(action)
	if cfg.Limit <= 0 {
		return Rule{}, false, nil
	}

	window, err := parseWindow(cfg.Window)
	if err != nil {
		return Rule{}, false, fmt.Errorf("%s rate limit: %w", action, err)
	}

	return Rule{Limit: cfg.Limit, Window: window}, true, nil
}

// MaxWindow is the longest window of any valid rule, the age after which
// nothing a limiter remembers can matter anymore.
func (r *Rules) MaxWindow() time.Duration {
	var longest time.Duration
	for _, action := range []Action{ActionCommand, ActionCallback, ActionText, ActionOther} {
		if rule, ok, err := r.For(action); err == nil && ok && rule.Window > longest {
			longest = rule.Window
		}
	}
	return longest
}

func (r *Rules) configured(action Action) config.RateLimitRule {
	var rule config.RateLimitRule
	switch action {
	case ActionCommand:
		rule = r.config.Actions.Command
	case ActionCallback:
		rule = r.config.Actions.Callback
	case ActionText:
		rule = r.config.Actions.Text
	}

	if rule == (config.RateLimitRule{}) {
		return r.config.PerUser
	}
	return rule
}

// Key is the limiter key of one user's budget for action.
func Key(userID int64, action Action) string {
	return fmt.Sprintf("user:%d:%s", userID, action)
}

func parseWindow(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, ErrWindowNotSet
	}
	window, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if window <= 0 {
		return 0, ErrInvalidRule
	}
	return window, nil
}
