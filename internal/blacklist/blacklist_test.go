package blacklist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogotex/pingbot/internal/wiki"
)

type brokenBackend struct{ *wiki.MemoryBackend }

func (brokenBackend) GetPage(context.Context, string, string) (*wiki.Page, error) {
	return nil, errors.New("timeout")
}

func TestAddAndIsBlacklisted(t *testing.T) {
	mem := wiki.NewMemoryBackend()
	bl := New(wiki.NewAdapter(mem, "page"))
	ctx := context.Background()

	ok, err := bl.IsBlacklisted(ctx, "golang", "Eve")
	require.NoError(t, err)
	require.False(t, ok)

	added, err := bl.Add(ctx, "golang", " Eve ")
	require.NoError(t, err)
	require.True(t, added)

	added, err = bl.Add(ctx, "golang", "EVE")
	require.NoError(t, err)
	require.False(t, added)

	ok, err = bl.IsBlacklisted(ctx, "golang", "eve")
	require.NoError(t, err)
	require.True(t, ok)

	p, err := mem.GetPage(ctx, "golang", "page")
	require.NoError(t, err)
	require.JSONEq(t, `{"__blacklist":["eve"]}`, p.Content)
}

func TestIsBlacklisted_CorruptDocumentIsEmpty(t *testing.T) {
	mem := wiki.NewMemoryBackend()
	mem.Put("golang", "page", "<<garbage>>")
	bl := New(wiki.NewAdapter(mem, "page"))

	ok, err := bl.IsBlacklisted(context.Background(), "golang", "eve")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsBlacklisted_StoreErrorPropagates(t *testing.T) {
	bl := New(wiki.NewAdapter(brokenBackend{wiki.NewMemoryBackend()}, "page"))
	_, err := bl.IsBlacklisted(context.Background(), "golang", "eve")
	require.Error(t, err)
}

func TestMembers(t *testing.T) {
	mem := wiki.NewMemoryBackend()
	mem.Put("golang", "page", `{"__blacklist":["Eve","mallory"]}`)
	bl := New(wiki.NewAdapter(mem, "page"))

	got, err := bl.Members(context.Background(), "golang")
	require.NoError(t, err)
	require.Contains(t, got, "eve")
	require.Contains(t, got, "mallory")
	require.Len(t, got, 2)
}
