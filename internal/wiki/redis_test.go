package wiki

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisBackend_FetchOrCreateAndWrite(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	backend := NewRedisBackend(client, "test:wiki:")
	a := NewAdapter(backend, "ping-bot")
	ctx := context.Background()

	_, err = backend.GetPage(ctx, "golang", "ping-bot")
	require.True(t, IsNotFound(err))

	p, err := a.FetchOrCreate(ctx, "golang", "{}")
	require.NoError(t, err)
	require.False(t, p.Listed)
	require.Equal(t, PermissionModsOnly, p.Permission)
	require.True(t, m.Exists("test:wiki:golang:ping-bot"))

	require.ErrorIs(t, backend.CreatePage(ctx, "golang", "ping-bot", "{}", ""), ErrPageExists)

	doc := Document{}
	doc.SetStringList("news", []string{"alice"})
	require.NoError(t, a.WriteWhole(ctx, "golang", doc, "add"))

	got, err := a.Read(ctx, "golang")
	require.NoError(t, err)
	members, ok := got.StringList("news")
	require.True(t, ok)
	require.Equal(t, []string{"alice"}, members)
}
