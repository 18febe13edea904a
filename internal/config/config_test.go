package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("WEBHOOK_SECRET", "testsecret123456789012345678901234")
	t.Setenv("PLATFORM_BASE_URL", "https://example.test/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "redis", cfg.Store.Backend)
	require.Equal(t, "localhost:6380", cfg.Redis.Addr())
	require.Equal(t, "ping-bot", cfg.Store.PageName)
	require.Equal(t, "u/", cfg.Bot.MentionPrefix)
	require.Equal(t, "https://example.test", cfg.Bot.BaseURL)
	require.Equal(t, 24*time.Hour, cfg.Webhook.DedupeTTL)
}

func TestLoadConfig_MongoWithoutURIFallsBack(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Store.Backend)
}
