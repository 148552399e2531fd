package codeview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chaindemo/internal/cachemanager"
	"github.com/zjrosen/chaindemo/internal/mocks"
)

func newCache() *cachemanager.InMemoryCacheManager[Key, string] {
	return cachemanager.NewInMemoryCacheManager[Key, string]("code", time.Minute, time.Minute)
}

func TestRender_ContainsSource(t *testing.T) {
	r := New(newCache(), "dark")

	out := ansi.Strip(r.Render(context.Background(), 80))
	require.Contains(t, out, "#[starknet::contract]")
	require.Contains(t, out, "TokenVault")
	require.Contains(t, out, "fn withdraw")
}

func TestRender_CachesPerWidthAndStyle(t *testing.T) {
	cache := newCache()
	r := New(cache, "dark")
	ctx := context.Background()

	r.Render(ctx, 80)
	r.Render(ctx, 80)
	require.Equal(t, 1, cache.Len())

	r.Render(ctx, 60)
	require.Equal(t, 2, cache.Len())

	_, ok := cache.Get(ctx, keyFor(request{width: 60, style: "dark"}))
	require.True(t, ok)
}

func TestRender_UsesCachedValue(t *testing.T) {
	cache := mocks.NewMockCacheManager[Key, string](t)
	cache.EXPECT().
		GetWithRefresh(mock.Anything, Key("contract:40:dark"), CacheTTL).
		Return("cached render", true)

	r := New(cache, "")
	require.Equal(t, "cached render", r.Render(context.Background(), 40))
}

func TestRender_ClampsNarrowWidth(t *testing.T) {
	cache := mocks.NewMockCacheManager[Key, string](t)
	cache.EXPECT().
		GetWithRefresh(mock.Anything, Key("contract:20:light"), CacheTTL).
		Return("narrow", true)

	r := New(cache, "light")
	require.Equal(t, "narrow", r.Render(context.Background(), 5))
}

func TestSetStyle_InvalidatesOnChange(t *testing.T) {
	cache := mocks.NewMockCacheManager[Key, string](t)
	cache.EXPECT().Flush(mock.Anything).Return(nil).Once()

	r := New(cache, "dark")
	r.SetStyle(context.Background(), "dark")
	require.Equal(t, "dark", r.Style())

	r.SetStyle(context.Background(), "light")
	require.Equal(t, "light", r.Style())
}

func TestInvalidate_FlushErrorIsLogged(t *testing.T) {
	cache := mocks.NewMockCacheManager[Key, string](t)
	cache.EXPECT().Flush(mock.Anything).Return(errors.New("boom"))

	r := New(cache, "dark")
	require.NotPanics(t, func() { r.Invalidate(context.Background()) })
}

func TestNormalizeStyle(t *testing.T) {
	require.Equal(t, "dark", normalizeStyle(""))
	require.Equal(t, "dark", normalizeStyle("notty"))
	require.Equal(t, "light", normalizeStyle("light"))
}
