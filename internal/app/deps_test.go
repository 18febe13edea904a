package app

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/pingbot/internal/bot"
	"github.com/gogotex/pingbot/internal/config"
	"github.com/gogotex/pingbot/internal/notify"
	"github.com/gogotex/pingbot/internal/settings"
	"github.com/gogotex/pingbot/internal/wiki"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Store:    config.StoreConfig{Backend: "memory", PageName: "ping-bot"},
		Settings: config.SettingsConfig{Backend: "memory"},
		Outbox:   config.OutboxConfig{Backend: "log"},
	}
}

func TestOpen_Memory(t *testing.T) {
	d, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer d.Close()

	require.IsType(t, &wiki.MemoryBackend{}, d.Pages)
	require.IsType(t, &settings.MemorySource{}, d.Settings)
	require.NotNil(t, d.Saver)
	require.IsType(t, notify.LogMessenger{}, d.Messenger)
	require.Nil(t, d.Redis)
}

func TestOpen_RedisEverywhere(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	cfg := memoryConfig()
	cfg.Redis = config.RedisConfig{Host: m.Host(), Port: m.Port()}
	cfg.Store.Backend = "redis"
	cfg.Settings.Backend = "redis"
	cfg.Outbox = config.OutboxConfig{Backend: "redis", Key: "test:outbox"}

	d, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer d.Close()

	ctx := context.Background()
	require.NoError(t, d.Saver.Save(ctx, "golang", settings.PingSettings{EnablePingBot: true, Groups: []settings.Slot{{Enabled: true, Name: "news"}}}))

	dispatcher := d.Dispatcher(cfg)
	dispatcher.HandleComment(ctx, bot.CommentEvent{
		Community: "golang",
		Author:    bot.Author{Name: "amy"},
		Comment:   bot.Comment{ID: "t1_1", Body: "!subscribe news"},
		Post:      bot.Post{Permalink: "/r/golang/comments/1/"},
	})

	require.True(t, m.Exists("wiki:golang:ping-bot"))
	items, err := m.List("test:outbox")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestOpen_Errors(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Backend = "redis"
	_, err := Open(context.Background(), cfg)
	require.ErrorContains(t, err, "REDIS_HOST")

	cfg = memoryConfig()
	cfg.Store.Backend = "sqlite"
	_, err = Open(context.Background(), cfg)
	require.ErrorContains(t, err, "STORE_BACKEND")

	cfg = memoryConfig()
	cfg.Outbox.Backend = "smtp"
	_, err = Open(context.Background(), cfg)
	require.ErrorContains(t, err, "OUTBOX_BACKEND")
}

func TestOpen_FileSettingsAreReadOnly(t *testing.T) {
	cfg := memoryConfig()
	cfg.Settings = config.SettingsConfig{Backend: "file", File: "settings.yaml"}
	d, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.Nil(t, d.Saver)
}
