package wiki

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// failingBackend returns err from GetPage and records writes.
type failingBackend struct {
	err     error
	creates int
}

func (f *failingBackend) GetPage(context.Context, string, string) (*Page, error) { return nil, f.err }
func (f *failingBackend) CreatePage(context.Context, string, string, string, string) error {
	f.creates++
	return nil
}
func (f *failingBackend) UpdatePageSettings(context.Context, string, string, bool, Permission) error {
	return nil
}
func (f *failingBackend) UpdatePage(context.Context, string, string, string, string) error {
	return nil
}

func TestFetchOrCreate_CreatesMissingPage(t *testing.T) {
	mem := NewMemoryBackend()
	a := NewAdapter(mem, "")
	ctx := context.Background()

	p, err := a.FetchOrCreate(ctx, "golang", `{"alerts":[]}`)
	require.NoError(t, err)
	require.Equal(t, DefaultPageName, p.Name)
	require.Equal(t, `{"alerts":[]}`, p.Content)
	require.False(t, p.Listed)
	require.Equal(t, PermissionModsOnly, p.Permission)

	// second call returns the stored page and ignores the default
	p2, err := a.FetchOrCreate(ctx, "golang", `{"other":[]}`)
	require.NoError(t, err)
	require.Equal(t, `{"alerts":[]}`, p2.Content)
}

func TestFetchOrCreate_PropagatesOtherErrors(t *testing.T) {
	boom := errors.New("upstream 500")
	fb := &failingBackend{err: boom}
	a := NewAdapter(fb, "page")

	_, err := a.FetchOrCreate(context.Background(), "golang", "{}")
	require.ErrorIs(t, err, boom)
	require.Zero(t, fb.creates)
}

func TestRead_MissingPageIsEmptyAndNotCreated(t *testing.T) {
	mem := NewMemoryBackend()
	a := NewAdapter(mem, "page")
	ctx := context.Background()

	doc, err := a.Read(ctx, "golang")
	require.NoError(t, err)
	require.Empty(t, doc)

	_, err = mem.GetPage(ctx, "golang", "page")
	require.True(t, IsNotFound(err))
}

func TestLoadAndWriteWhole(t *testing.T) {
	mem := NewMemoryBackend()
	a := NewAdapter(mem, "page")
	ctx := context.Background()

	doc, err := a.Load(ctx, "golang")
	require.NoError(t, err)
	require.Empty(t, doc)

	doc.SetStringList("news", []string{"alice"})
	require.NoError(t, a.WriteWhole(ctx, "golang", doc, "add alice"))

	p, err := mem.GetPage(ctx, "golang", "page")
	require.NoError(t, err)
	require.JSONEq(t, `{"news":["alice"]}`, p.Content)
	require.Equal(t, "add alice", p.Reason)
}

func TestLoad_CorruptPageReadsAsEmpty(t *testing.T) {
	mem := NewMemoryBackend()
	mem.Put("golang", "page", "{{{")
	a := NewAdapter(mem, "page")

	doc, err := a.Load(context.Background(), "golang")
	require.NoError(t, err)
	require.Empty(t, doc)
}
