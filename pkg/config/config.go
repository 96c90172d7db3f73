package config

import "time"

// Config holds runtime configuration for the Junior Saver admin bot.
type Config struct {
	AppEnv    string          `mapstructure:"app_env"`
	Bot       BotConfig       `mapstructure:"bot"`
	Admins    []int64         `mapstructure:"admins"`
	Log       LogConfig       `mapstructure:"log"`
	State     StateConfig     `mapstructure:"state"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// BotConfig describes how the bot talks to the Telegram Bot API.
type BotConfig struct {
	Token          string        `mapstructure:"token"`
	Mode           string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gte=0"`
	WebhookListen  string        `mapstructure:"webhook_listen" validate:"required_if=Mode webhook"`
	WebhookURL     string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	CallbackPrefix string        `mapstructure:"callback_prefix" validate:"max=32"`
	DedupTTL       time.Duration `mapstructure:"dedup_ttl" validate:"gte=0"`
}

// LogConfig configures the slog pipeline.
type LogConfig struct {
	Level  string        `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string        `mapstructure:"format" validate:"oneof=text json"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotated file output in addition to stdout.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// StateConfig selects where conversation state lives.
type StateConfig struct {
	Backend         string        `mapstructure:"backend" validate:"oneof=memory redis"`
	TTL             time.Duration `mapstructure:"ttl" validate:"gte=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"gte=0"`
}

// RedisConfig holds connection parameters used when State.Backend is redis.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db" validate:"gte=0"`
	PoolSize     int           `mapstructure:"pool_size" validate:"gte=0"`
	MinIdleConns int           `mapstructure:"min_idle_conns" validate:"gte=0"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// MetricsConfig configures the Prometheus and health HTTP endpoint.
type MetricsConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// RateLimitConfig limits how many updates a single user may send.
// PerUser applies to any action without its own rule.
type RateLimitConfig struct {
	Enabled   bool             `mapstructure:"enabled"`
	PerUser   RateLimitRule    `mapstructure:"per_user"`
	Actions   RateLimitActions `mapstructure:"actions"`
	Whitelist []int64          `mapstructure:"whitelist"`
}

// RateLimitActions holds a separate budget per kind of update.
type RateLimitActions struct {
	Command  RateLimitRule `mapstructure:"command"`
	Callback RateLimitRule `mapstructure:"callback"`
	Text     RateLimitRule `mapstructure:"text"`
}

// RateLimitRule is a limit of Limit events per Window (Go duration string).
type RateLimitRule struct {
	Limit  int    `mapstructure:"limit" validate:"gte=0"`
	Window string `mapstructure:"window"`
}
