package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/pubsub"
	"github.com/zjrosen/chaindemo/internal/watcher"
)

func startWatcher(t *testing.T, path string) <-chan pubsub.Event[watcher.Reload] {
	t.Helper()
	w, err := watcher.New(watcher.Config{
		Path:        path,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ch := w.Subscribe(ctx)

	require.NoError(t, w.Start(), "failed to start watcher")
	return ch
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  speed: 1\n"), 0644))

	ch := startWatcher(t, path)

	for i := 1; i <= 10; i++ {
		content := fmt.Sprintf("demo:\n  speed: %d\n", i)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-ch:
		require.NoError(t, ev.Payload.Err)
		require.NotNil(t, ev.Payload.Config)
		assert.InDelta(t, 10.0, ev.Payload.Config.Demo.Speed, 0.001)
	case <-time.After(time.Second):
		t.Fatal("expected reload but got timeout")
	}

	select {
	case <-ch:
		t.Fatal("unexpected second reload")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  speed: 1\n"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0644))

	ch := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0644))

	select {
	case <-ch:
		t.Fatal("should not reload for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_InvalidConfigPublishesError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  speed: 1\n"), 0644))

	ch := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("demo:\n  payload: mainnet\n"), 0644))

	select {
	case ev := <-ch:
		require.Error(t, ev.Payload.Err)
		require.Nil(t, ev.Payload.Config)
	case <-time.After(time.Second):
		t.Fatal("expected reload error but got timeout")
	}
}

func TestWatcher_SeesAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  payload: starknet\n"), 0644))

	ch := startWatcher(t, path)

	require.NoError(t, config.SavePayload(path, "sepolia"))

	select {
	case ev := <-ch:
		require.NoError(t, ev.Payload.Err)
		assert.Equal(t, "sepolia", ev.Payload.Config.Demo.Payload)
	case <-time.After(time.Second):
		t.Fatal("expected reload after atomic save")
	}
}

func TestWatcher_StopClosesSubscriptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  speed: 1\n"), 0644))

	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	ch := w.Subscribe(context.Background())
	require.NoError(t, w.Start())

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop(), "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}

	_, ok := <-ch
	require.False(t, ok, "subscription should be closed after Stop")
}

func TestWatcher_StopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  speed: 1\n"), 0644))

	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	w.Subscribe(ctx)
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	cancel()
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/test/config.yaml")

	assert.Equal(t, "/test/config.yaml", cfg.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}
