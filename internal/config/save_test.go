package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSavePayload_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SavePayload(path, "sepolia"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Demo run settings")
	require.Contains(t, string(data), "payload: sepolia")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sepolia", cfg.Demo.Payload)
	require.Equal(t, 1.0, cfg.Demo.Speed)
}

func TestSaveValue_CreatesFileAndSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, SaveValue(path, []string{"flags", "legacy-reset"}, "true"))
	require.NoError(t, SavePayload(path, "sepolia"))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Flags["legacy-reset"])
	require.Equal(t, "sepolia", cfg.Demo.Payload)
}

func TestSaveValue_ReplacesScalarSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo: broken\n"), 0o600))

	require.NoError(t, SavePayload(path, "starknet"))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "starknet", cfg.Demo.Payload)
}

func TestSaveValue_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Error(t, SaveValue(path, nil, "x"))

	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))
	require.ErrorContains(t, SaveValue(path, []string{"demo", "payload"}, "x"), "not a mapping")
}
