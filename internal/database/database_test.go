package database

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/pingbot/internal/config"
)

func TestConnectRedis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	cfg := config.RedisConfig{Host: m.Host(), Port: m.Port()}
	client, err := ConnectRedis(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := m.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestConnectRedis_Unreachable(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	cfg := config.RedisConfig{Host: m.Host(), Port: m.Port()}
	m.Close()

	_, err = ConnectRedis(context.Background(), cfg)
	require.Error(t, err)
}

func TestConnectMongoWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectMongoWithRetry(ctx, "mongodb://127.0.0.1:1", 50*time.Millisecond, 3)
	require.Error(t, err)
}
