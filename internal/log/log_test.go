package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	line := Format(ts, LevelInfo, CatFlow, "step changed", "from", "idle", "to", "generating")
	require.Equal(t, "2025-12-06T10:45:00 [INFO] [flow] step changed from=idle to=generating", line)
}

func TestFormat_OddFields(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	line := Format(ts, LevelWarn, CatUI, "orphan", "key")
	require.Equal(t, "2025-12-06T10:45:00 [WARN] [ui] orphan key=<missing>", line)
}

func TestLog_RespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelInfo)
	t.Cleanup(Disable)

	Debug(CatFlow, "hidden")
	Info(CatFlow, "shown")
	ErrorErr(CatDB, "failed", errors.New("boom"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[INFO] [flow] shown")
	require.Contains(t, out, "[ERROR] [db] failed error=boom")
}

func TestLog_DisabledIsNoop(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	SetEnabled(false)
	Info(CatFlow, "dropped")
	require.Empty(t, buf.String())
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatConfig, "reloaded", "path", "config.yaml")

	msg := listener.Listen()()
	ev, ok := msg.(LogEvent)
	require.True(t, ok)
	require.Contains(t, ev.Payload, "reloaded path=config.yaml")
}

func TestNewListener_NilWithoutLogger(t *testing.T) {
	Disable()
	require.Nil(t, NewListener(context.Background()))
}

func TestSetMinLevel_RaisesThreshold(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	SetMinLevel(LevelWarn)
	Info(CatConfig, "quiet")
	Warn(CatConfig, "loud")

	require.NotContains(t, buf.String(), "quiet")
	require.Contains(t, buf.String(), "[WARN] [config] loud")
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}
