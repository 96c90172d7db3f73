package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return dir
}

func TestLoad_MissingToken(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BOT_TOKEN", "")

	_, _, err := Load()
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMINS", "11,22")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, v, err := Load()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, 10*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, []int64{11, 22}, cfg.Admins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.State.Backend)
	assert.Zero(t, cfg.State.TTL, "idle conversations never expire unless configured")
	assert.Equal(t, RateLimitRule{Limit: 5, Window: "1m"}, cfg.RateLimit.Actions.Text)
	assert.Equal(t, RateLimitRule{Limit: 20, Window: "1m"}, cfg.RateLimit.Actions.Callback)
	assert.Equal(t, "", v.ConfigFileUsed())
}

func TestLoad_FromFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("BOT_TOKEN", "from-env")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	content := []byte(`
bot:
  token: from-file
  mode: polling
admins: [5, 6]
state:
  backend: redis
redis:
  addr: redis:6379
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "staging.yaml"), content, 0o600))

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Bot.Token)
	assert.Equal(t, []int64{5, 6}, cfg.Admins)
	assert.Equal(t, "redis", cfg.State.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_InvalidMode(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BOT_MODE", "carrier-pigeon")

	_, _, err := Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingToken)
}
