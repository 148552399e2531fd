package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chaindemo/internal/mocks"
)

type renderInput struct {
	Source string
	Width  int
}

func fakeRender(calls *int) func(context.Context, renderInput) (string, error) {
	return func(_ context.Context, in renderInput) (string, error) {
		*calls++
		return "rendered:" + in.Source, nil
	}
}

func TestReadThroughCache_SkipCacheAlwaysRenders(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	calls := 0
	rtc := NewReadThroughCache[renderKey, string, renderInput](managerMock, fakeRender(&calls), true)

	got, err := rtc.Get(context.Background(), "k", renderInput{Source: "fn"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "rendered:fn", got)

	got, err = rtc.GetWithRefresh(context.Background(), "k", renderInput{Source: "fn"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "rendered:fn", got)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_Get_Hit(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().Get(mock.Anything, renderKey("k")).Return("cached", true)
	calls := 0
	rtc := NewReadThroughCache[renderKey, string, renderInput](managerMock, fakeRender(&calls), false)

	got, err := rtc.Get(context.Background(), "k", renderInput{Source: "fn"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got)
	require.Zero(t, calls)
}

func TestReadThroughCache_Get_MissStores(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().Get(mock.Anything, renderKey("k")).Return("", false)
	managerMock.EXPECT().Set(mock.Anything, renderKey("k"), "rendered:fn", time.Minute).Return()
	calls := 0
	rtc := NewReadThroughCache[renderKey, string, renderInput](managerMock, fakeRender(&calls), false)

	got, err := rtc.Get(context.Background(), "k", renderInput{Source: "fn"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "rendered:fn", got)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_Get_ErrorNotCached(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().Get(mock.Anything, renderKey("k")).Return("", false)
	rtc := NewReadThroughCache[renderKey, string, renderInput](managerMock,
		func(context.Context, renderInput) (string, error) { return "", errors.New("render failed") },
		false,
	)

	_, err := rtc.Get(context.Background(), "k", renderInput{}, time.Minute)
	require.Error(t, err)
	managerMock.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_GetWithRefresh_Hit(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, renderKey("k"), time.Minute).Return("cached", true)
	calls := 0
	rtc := NewReadThroughCache[renderKey, string, renderInput](managerMock, fakeRender(&calls), false)

	got, err := rtc.GetWithRefresh(context.Background(), "k", renderInput{}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got)
}

func TestReadThroughCache_GetWithRefresh_MissStores(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, renderKey("k"), time.Minute).Return("", false)
	managerMock.EXPECT().Set(mock.Anything, renderKey("k"), "rendered:fn", time.Minute).Return()
	calls := 0
	rtc := NewReadThroughCache[renderKey, string, renderInput](managerMock, fakeRender(&calls), false)

	got, err := rtc.GetWithRefresh(context.Background(), "k", renderInput{Source: "fn"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "rendered:fn", got)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[renderKey, string](t)
	managerMock.EXPECT().Flush(mock.Anything).Return(nil)
	rtc := NewReadThroughCache[renderKey, string, renderInput](managerMock, fakeRender(new(int)), false)

	require.NoError(t, rtc.Invalidate(context.Background()))
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	calls := 0
	rtc := NewReadThroughCache[renderKey, string, renderInput](newCache[string](), fakeRender(&calls), false)
	ctx := context.Background()

	for range 3 {
		got, err := rtc.Get(ctx, "starknet:80", renderInput{Source: "fn"}, time.Minute)
		require.NoError(t, err)
		require.Equal(t, "rendered:fn", got)
	}
	require.Equal(t, 1, calls)

	require.NoError(t, rtc.Invalidate(ctx))
	_, err := rtc.Get(ctx, "starknet:80", renderInput{Source: "fn"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
