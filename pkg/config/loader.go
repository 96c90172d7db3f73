// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned when BOT_TOKEN is not set.
var ErrMissingToken = errors.New("BOT_TOKEN environment variable is required")

var defaults = map[string]any{
	"bot.token":           "",
	"bot.mode":            "polling",
	"bot.timeout":         10 * time.Second,
	"bot.webhook_listen":  "",
	"bot.webhook_url":     "",
	"bot.callback_prefix": "",
	"bot.dedup_ttl":       10 * time.Minute,

	"admins": []int64{},

	"log.level":             "info",
	"log.format":            "text",
	"log.file.path":         "",
	"log.file.max_size_mb":  100,
	"log.file.max_backups":  3,
	"log.file.max_age_days": 28,
	"log.file.compress":     true,

	"state.backend":          "memory",
	"state.ttl":              time.Duration(0),
	"state.cleanup_interval": 10 * time.Minute,

	"redis.addr":           "localhost:6379",
	"redis.password":       "",
	"redis.db":             0,
	"redis.pool_size":      10,
	"redis.min_idle_conns": 1,
	"redis.pool_timeout":   4 * time.Second,
	"redis.idle_timeout":   5 * time.Minute,
	"redis.max_retries":    3,

	"metrics.enabled":          false,
	"metrics.addr":             ":9090",
	"metrics.shutdown_timeout": 5 * time.Second,

	"sentry.enabled": false,
	"sentry.dsn":     "",

	"rate_limit.enabled":                 true,
	"rate_limit.per_user.limit":          30,
	"rate_limit.per_user.window":         "1m",
	"rate_limit.actions.command.limit":   10,
	"rate_limit.actions.command.window":  "1m",
	"rate_limit.actions.callback.limit":  20,
	"rate_limit.actions.callback.window": "1m",
	"rate_limit.actions.text.limit":      5,
	"rate_limit.actions.text.window":     "1m",
	"rate_limit.whitelist":               []int64{},
}

// Load reads configuration from an optional YAML file and the environment,
// validates it, and returns the resulting Config.
func Load() (*Config, *viper.Viper, error) {
	// .env files are optional; real deployments pass variables directly.
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := fmt.Sprintf("./configs/%s.yaml", env)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-decodes the config file whenever it is written and passes valid
// results to onChange. It is a no-op when no config file was loaded.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || v.ConfigFileUsed() == "" || onChange == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := decode(v)
		if err != nil {
			log.Warn("ignoring invalid config change", slog.String("file", e.Name), slog.Any("error", err))
			return
		}

		log.Info("config reloaded", slog.String("file", e.Name))
		onChange(cfg)
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Bot.Token) == "" {
		return nil, ErrMissingToken
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
